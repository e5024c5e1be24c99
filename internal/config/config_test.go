package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/sthapati")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 10080, cfg.JWTExpiresMin)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		dsn    string
		secret string
	}{
		{name: "missing dsn", dsn: "", secret: "secret"},
		{name: "missing secret", dsn: "postgres://localhost/sthapati", secret: ""},
		{name: "blank secret", dsn: "postgres://localhost/sthapati", secret: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DSN", tt.dsn)
			t.Setenv("JWT_SECRET", tt.secret)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/sthapati")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "shh")
	t.Setenv("OTP_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "s3", cfg.Storage.Type)
	assert.True(t, cfg.GoogleEnabled())
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
}
