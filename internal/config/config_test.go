package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "pos-checkout", cfg.App.Service)
	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 1024, cfg.Outbox.QueueSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("POS_APP_ENV", "prod")
	t.Setenv("POS_HTTP_ADDR", ":9090")
	t.Setenv("POS_OUTBOX_HANDLER_TIMEOUT", "2s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProd())
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Second, cfg.Outbox.HandlerTimeout)
}

func TestLoadDotenvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("POS_LOG_LEVEL=debug\nPOS_HTTP_ADDR=:7070\n"), 0o600))
	t.Setenv("POS_HTTP_ADDR", ":6060")
	// godotenv sets variables process-wide
	t.Cleanup(func() { _ = os.Unsetenv("POS_LOG_LEVEL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":6060", cfg.HTTP.Addr)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]struct {
		key, value string
	}{
		"metrics path without slash": {"POS_METRICS_PATH", "metrics"},
		"empty address":              {"POS_HTTP_ADDR", ""},
		"zero queue size":            {"POS_OUTBOX_QUEUE_SIZE", "0"},
		"zero read timeout":          {"POS_HTTP_READ_TIMEOUT", "0s"},
		"negative write timeout":     {"POS_HTTP_WRITE_TIMEOUT", "-5s"},
		"zero shutdown timeout":      {"POS_HTTP_SHUTDOWN_TIMEOUT", "0s"},
		"negative handler timeout":   {"POS_OUTBOX_HANDLER_TIMEOUT", "-1s"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}
