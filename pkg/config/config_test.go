package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1d", 24 * time.Hour, false},
		{"10d", 240 * time.Hour, false},
		{"15m", 15 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"0d", 0, true},
		{"-5m", 0, true},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExpiry(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRY", "")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "")
	t.Setenv("RESET_PASSWORD_EXPIRY_MINUTES", "")
	t.Setenv("ALLOWED_EMAIL_DOMAIN", "")
	t.Setenv("MONGO_TRANSACTIONS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, 240*time.Hour, cfg.Auth.RefreshTokenExpiry)
	assert.Equal(t, 10*time.Minute, cfg.Auth.ResetPasswordTTL)
	assert.Equal(t, "nitc.ac.in", cfg.Auth.AllowedEmailDomain)
	assert.False(t, cfg.Mongo.Transactions)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RESET_PASSWORD_EXPIRY_MINUTES", "30")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Auth.ResetPasswordTTL)
	assert.True(t, cfg.Mongo.Transactions)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenExpiry)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("MONGO_TRANSACTIONS", "maybe")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_SECRET")
	assert.Contains(t, err.Error(), "MONGODB_URI")

	cfg.Mongo.URI = "mongodb://localhost"
	cfg.Postgres.URL = "postgres://localhost"
	cfg.Auth.AccessTokenSecret = "a"
	cfg.Auth.RefreshTokenSecret = "r"
	assert.NoError(t, cfg.Validate())
}
