package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:3000/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
	assert.Equal(t, "file", cfg.QueueDriver)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
agent:
  api_base_url: https://jkwi.example/api
  sync_interval: 1m
  queue_driver: redis
`), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://jkwi.example/api", cfg.APIBaseURL)
	assert.Equal(t, time.Minute, cfg.SyncInterval)
	assert.Equal(t, "redis", cfg.QueueDriver)
}
