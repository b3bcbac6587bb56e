package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("UPSTREAM_BASE_URL", "http://platform.local/api")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "entry")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 100, cfg.EntryPass.Rate)
	assert.Equal(t, 1500*time.Millisecond, cfg.EntryPass.PaymentDelay)
	assert.Equal(t, "strict", cfg.Schedule.TimePolicy)
	assert.Equal(t, 12*time.Hour, cfg.Scanner.SessionTTL)
	assert.Equal(t, 4, cfg.Scanner.EnrichConcurrency)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
	assert.Equal(t, map[string]bool{"GET": true}, cfg.Cache.MethodSet())
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SHOW_TIME_POLICY", "overnight")
	t.Setenv("EVENT_TIMEZONE", "Europe/Berlin")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "overnight", cfg.Schedule.TimePolicy)
	loc, err := cfg.Schedule.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
	assert.Equal(t, "cache:6380", cfg.Redis.Address())
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Cache.MethodSet())
	assert.Equal(t, 1, cfg.RateLimit.Capacity)
	assert.Equal(t, 5*time.Second, cfg.RateLimit.TTL)
}

func TestLoadRejectsNonPositiveRate(t *testing.T) {
	setRequired(t)
	t.Setenv("ENTRY_PASS_RATE", "0")

	_, err := Load()
	assert.Error(t, err)
}
