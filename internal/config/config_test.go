package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "regular", cfg.Loyalty.DefaultRole)
	assert.Equal(t, 3, cfg.Settlement.MaxRetries)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, 100, cfg.Notify.QueueSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BILLING_HTTP_ADDR", ":9090")
	t.Setenv("BILLING_DB_HOST", "db.internal")
	t.Setenv("BILLING_LOYALTY_DEFAULT_ROLE", "wholesale")
	t.Setenv("BILLING_NOTIFY_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "wholesale", cfg.Loyalty.DefaultRole)
	assert.Equal(t, 2*time.Second, cfg.Notify.Timeout)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("BILLING_CACHE_TTL", "soon")
	_, err := Load()
	assert.Error(t, err)
}
