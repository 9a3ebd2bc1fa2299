package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands_RejectBadArguments(t *testing.T) {
	t.Setenv("EMAIL_TRANSPORT", "smtp")
	t.Setenv("APP_ENV", "test")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"retry id not a number", []string{"notify-retry", "abc"}, `invalid notification id "abc"`},
		{"retry id missing", []string{"notify-retry"}, "accepts 1 arg(s)"},
		{"grant bad user", []string{"grant", "x", "finance", "add", "payment"}, `invalid user id "x"`},
		{"revoke short", []string{"revoke", "5", "finance"}, "accepts 4 arg(s)"},
		{"create-admin weak password", []string{"create-admin", "--email", "a@b.c", "--password", "short"}, "at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := rootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))

			err := cmd.Execute()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd().Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "migrate", "refresh-statuses", "notify-retry", "grant", "revoke", "create-admin"} {
		assert.True(t, names[want], want)
	}
}
