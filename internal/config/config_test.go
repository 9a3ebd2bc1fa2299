package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EMAIL_TRANSPORT", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, TransportSMTP, cfg.EmailTransport)
	assert.Equal(t, time.Minute, cfg.DashboardCacheTTL)
	assert.Equal(t, "/auth/login", cfg.LoginPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"smtp ok", Config{EmailTransport: TransportSMTP}, nil},
		{"brevo without key", Config{EmailTransport: TransportBrevo}, ErrMissingBrevoKey},
		{"brevo with key", Config{EmailTransport: TransportBrevo, BrevoAPIKey: "xkeysib"}, nil},
		{"unknown transport", Config{EmailTransport: "pigeon"}, ErrUnknownTransport},
		{"production default secret", Config{EmailTransport: TransportSMTP, Env: "production", JWTSecret: "secret-key"}, ErrWeakJWTSecret},
		{"production real secret", Config{EmailTransport: TransportSMTP, Env: "production", JWTSecret: "s3cr3t"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
