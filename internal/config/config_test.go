package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.Queue.Driver)
	assert.Equal(t, 4, cfg.Worker.Count)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "", cfg.Ingestion.Command)
	assert.Equal(t, 2, cfg.Ingestion.WorkerCount)
	assert.False(t, cfg.Auth.JWTEnabled)
	assert.Equal(t, "", cfg.Cache.Driver)
}

func TestLoadRejectsUnknownStoreDriver(t *testing.T) {
	t.Setenv("LEXCORE_STORE_DRIVER", "oracle")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("LEXCORE_SERVER_PORT", "0")
	_, err := Load("")
	assert.Error(t, err)
}
