package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gymdesk/internal/cache"
	"gymdesk/internal/config"
	"gymdesk/internal/db"
	"gymdesk/internal/logger"
	"gymdesk/internal/server"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// @title GymDesk API
// @version 1.0
// @description Back office for a gym: members, plans, payments, expenses and notifications.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:           "gymdesk",
		Short:         "Gym back office API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			logger.Init(cfg.LogLevel, !cfg.IsProduction())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Apply migrations and start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				database, err := db.Connect(cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer database.Close()
				return migrate(database, cfg)
			},
		},
		refreshStatusesCmd(&cfg),
		notifyRetryCmd(&cfg),
		grantCmd(&cfg, true),
		grantCmd(&cfg, false),
		createAdminCmd(&cfg),
	)

	return cmd
}

func migrate(database *sqlx.DB, cfg *config.Config) error {
	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Migrations completed")
	return nil
}

// newApp connects to the database and redis and wires the services.
func newApp(cfg *config.Config) (*server.App, func(), error) {
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	var c cache.Cache = cache.Noop{}
	closeCache := func() {}
	if cfg.RedisAddr != "" {
		client := cache.New(cfg.RedisAddr)
		c = cache.NewRedis(client, "gymdesk:")
		closeCache = func() { _ = client.Close() }
	}

	app, err := server.NewApp(database, c, cfg)
	if err != nil {
		database.Close()
		closeCache()
		return nil, nil, err
	}

	return app, func() {
		closeCache()
		database.Close()
	}, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger.Info("Starting GymDesk", "env", cfg.Env)

	app, cleanup, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	logger.Info("Database connected")

	if err := migrate(app.DB, cfg); err != nil {
		return err
	}

	srv := server.New(app)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
		return err
	}

	logger.Info("Server stopped")
	return nil
}
