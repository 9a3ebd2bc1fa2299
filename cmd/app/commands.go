package main

import (
	"context"
	"fmt"
	"strconv"

	"gymdesk/internal/auth"
	"gymdesk/internal/config"
	"gymdesk/internal/logger"

	"github.com/spf13/cobra"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func refreshStatusesCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-statuses",
		Short: "Expire members whose subscription has ended",
		Long:  "Runs the member status refresh once. Schedule it from cron; the server runs no scheduler of its own.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := newApp(*cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := commandContext(cmd)
			n, err := app.Members.RefreshStatuses(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				app.Dashboard.Invalidate(ctx)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d member(s) expired\n", n)
			return nil
		},
	}
}

func notifyRetryCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-retry <id>",
		Short: "Re-send one stored email notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 1 {
				return fmt.Errorf("invalid notification id %q", args[0])
			}

			app, cleanup, err := newApp(*cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := app.Notifications.Retry(commandContext(cmd), id)
			if err != nil {
				return err
			}
			if !res.Sent() {
				return fmt.Errorf("notification %d: %s", id, res.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "notification %d sent\n", id)
			return nil
		},
	}
}

func grantCmd(cfg **config.Config, grant bool) *cobra.Command {
	use, short := "grant", "Grant a capability to a user"
	if !grant {
		use, short = "revoke", "Revoke a capability from a user"
	}

	return &cobra.Command{
		Use:   use + " <user-id> <module> <view|add|change|delete> <entity>",
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.Atoi(args[0])
			if err != nil || userID < 1 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			capability := auth.Cap(args[1], auth.Action(args[2]), args[3])

			app, cleanup, err := newApp(*cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			apply := app.Users.Grant
			if !grant {
				apply = app.Users.Revoke
			}
			if err := apply(commandContext(cmd), userID, capability); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s for user %d\n", use, capability, userID)
			return nil
		},
	}
}

func createAdminCmd(cfg **config.Config) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a superuser account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || len(password) < 8 {
				return fmt.Errorf("--email and a --password of at least 8 characters are required")
			}

			app, cleanup, err := newApp(*cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			u, err := app.Users.CreateAdmin(commandContext(cmd), email, password)
			if err != nil {
				return err
			}
			logger.Info("superuser created", "user_id", u.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created with id %d\n", u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	return cmd
}
