package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/quickslot.db", cfg.Database.Path)
	assert.Equal(t, "", cfg.Auth.Secret)
	assert.Equal(t, 30, cfg.Auth.AccessTTLMinutes)
	assert.Equal(t, 7, cfg.Auth.RefreshTTLDays)
	assert.Equal(t, 100000, cfg.Auth.HashIterations)
	assert.Equal(t, 60, cfg.Auth.ResetTTLMinutes)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, "quickslot", cfg.Storage.KeyPrefix)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, "noreply@quickslot.com", cfg.Email.From)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QUICKSLOT_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("QUICKSLOT_AUTH_SECRET", "env-secret")
	t.Setenv("QUICKSLOT_AUTH_ACCESSTTLMINUTES", "5")
	t.Setenv("QUICKSLOT_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "env-secret", cfg.Auth.Secret)
	assert.Equal(t, 5, cfg.Auth.AccessTTLMinutes)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}
