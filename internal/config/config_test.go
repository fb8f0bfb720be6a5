package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AFFILIATE_HUB_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Stream.Interval)
	assert.True(t, cfg.Auth.Enabled)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("AFFILIATE_HUB_AUTH_ENABLED", "true")
	t.Setenv("AFFILIATE_HUB_JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "AFFILIATE_HUB_JWT_SECRET")
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("AFFILIATE_HUB_JWT_SECRET", "secret")
	t.Setenv("AFFILIATE_HUB_HTTP_ADDR", ":9999")
	t.Setenv("AFFILIATE_HUB_DB_PORT", "5433")
	t.Setenv("AFFILIATE_HUB_STREAM_INTERVAL", "2s")
	t.Setenv("AFFILIATE_HUB_AUTH_SKIP_PATHS", "/health, /metrics")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 2*time.Second, cfg.Stream.Interval)
	assert.Equal(t, []string{"/health", "/metrics"}, cfg.Auth.SkipPaths)
}

func TestValidateRejectsSubSecondInterval(t *testing.T) {
	t.Setenv("AFFILIATE_HUB_JWT_SECRET", "secret")
	t.Setenv("AFFILIATE_HUB_STREAM_INTERVAL", "100ms")

	_, err := Load()
	assert.ErrorContains(t, err, "AFFILIATE_HUB_STREAM_INTERVAL")
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.internal", Port: 5432,
		User: "hub", Password: "pw",
		DBName: "affiliatehub", SSLMode: "require",
	}
	assert.Equal(t, "postgres://hub:pw@db.internal:5432/affiliatehub?sslmode=require", d.DSN())
}
