package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/ordinal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_YAML(t *testing.T) {
	data := []byte(`
defaults:
  expression: "%04d.djvu"
store:
  backend: redis
  redis:
    addr: redis:6379
    db: "2"
    ttl: 24h
    lock: true
output:
  format: markdown
`)
	cfg, err := config.Parse(data, ".yaml")
	require.NoError(t, err)

	assert.Equal(t, "%04d.djvu", cfg.Defaults.Expression)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Store.Redis.TTL)
	assert.True(t, cfg.Store.Redis.Lock)
	assert.Equal(t, "markdown", cfg.Output.Format)

	// untouched keys keep defaults
	assert.Equal(t, "ordinal:", cfg.Store.Redis.Prefix)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestParse_JSON(t *testing.T) {
	cfg, err := config.Parse([]byte(`{"store": {"backend": "memory"}}`), ".json")
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "stor:\n  backend: file\n"},
		{"bad backend", "store:\n  backend: s3\n"},
		{"bad format", "output:\n  format: html\n"},
		{"bad color", "output:\n  color: sometimes\n"},
		{"bad duration", "store:\n  redis:\n    ttl: soon\n"},
		{"negative ttl", "store:\n  redis:\n    ttl: -1s\n"},
		{"malformed", "store: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.data), ".yaml")
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("explicit missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ordinal.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("default file absent", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})
}
