package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, 4, cfg.NotifyWorkers)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "blog", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":           "9000",
		"STORE_BACKEND":  "memory",
		"SESSION_TTL":    "30m",
		"COOKIE_SECURE":  "true",
		"REDIS_PASSWORD": "pw",
		"REDIS_URL":      "redis://cache:6379/2",
		"NOTIFY_WORKERS": "8",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, "pw", cfg.Redis.Password)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.URL)
	assert.Equal(t, 8, cfg.NotifyWorkers)
}

func TestLoadFrom_RejectsUnknownBackend(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_BACKEND": "postgres",
	}))
	assert.Error(t, err)
}

func TestLoadFrom_ProductionNeedsSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV": "production",
	}))
	assert.Error(t, err)

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":        "production",
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
