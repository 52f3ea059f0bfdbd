package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/moneysuperhero")
	t.Setenv("SESSION_SECRET", "a-very-long-session-secret-for-tests")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.Equal(t, 5, cfg.AuthRateBurst)
	assert.True(t, cfg.MigrateOnStart)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("CACHE_TTL", "0s")
	t.Setenv("AUTH_RATE_LIMIT", "60")
	t.Setenv("MIGRATE_ON_START", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
	assert.Equal(t, 60, cfg.AuthRateLimit)
	assert.False(t, cfg.MigrateOnStart)
}

func TestLoad_TrustedProxies(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.TrustedProxies, 2)
	assert.Equal(t, "10.0.0.0/8", cfg.TrustedProxies[0].String())
	assert.Equal(t, "192.0.2.1/32", cfg.TrustedProxies[1].String())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": ""}},
		{"missing session secret", map[string]string{"SESSION_SECRET": ""}},
		{"short secret in production", map[string]string{"ENV": "production", "SESSION_SECRET": "short"}},
		{"bad duration", map[string]string{"SESSION_MAX_AGE": "forever"}},
		{"bad integer", map[string]string{"AUTH_RATE_BURST": "many"}},
		{"bad boolean", map[string]string{"MIGRATE_ON_START": "perhaps"}},
		{"zero rate", map[string]string{"AUTH_RATE_LIMIT": "0"}},
		{"bad trusted proxy", map[string]string{"TRUSTED_PROXIES": "10.0.0.0/99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
