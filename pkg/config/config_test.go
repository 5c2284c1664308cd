package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, time.Hour, cfg.OrderCancelWindow)
	assert.Equal(t, int64(24*60*60), cfg.JWTExpiry)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ORDER_CANCEL_WINDOW", "30m")
	t.Setenv("FULFILMENT_ENABLED", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_EXPIRY", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.OrderCancelWindow)
	assert.False(t, cfg.FulfilmentEnabled)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, int64(24*60*60), cfg.JWTExpiry)
}
