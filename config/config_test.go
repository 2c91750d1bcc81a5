package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MAILPILOT_HOST", "MAILPILOT_PORT", "MAILPILOT_CREDENTIALS_DIR",
		"MAILPILOT_CATEGORIES", "MAILPILOT_WEBHOOK_URL",
		"MAILPILOT_WEBHOOK_TOKEN", "MAILPILOT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "credentials", cfg.Credentials.Dir)
	assert.Equal(t, "config/categories.yaml", cfg.CategoriesPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAILPILOT_HOST", "127.0.0.1")
	t.Setenv("MAILPILOT_PORT", "9090")
	t.Setenv("MAILPILOT_WEBHOOK_URL", "https://hub.local/webhook")
	t.Setenv("MAILPILOT_WEBHOOK_TOKEN", "secret")
	t.Setenv("MAILPILOT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, "https://hub.local/webhook", cfg.Webhook.URL)
	assert.Equal(t, "secret", cfg.Webhook.Token)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalidPortIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAILPILOT_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 10.0.0.5
  port: 8080
credentials:
  dir: /etc/mailpilot
categories_path: /etc/mailpilot/categories.yaml
logging:
  level: warn
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5:8080", cfg.Addr())
	assert.Equal(t, "/etc/mailpilot", cfg.Credentials.Dir)
	assert.Equal(t, "/etc/mailpilot/categories.yaml", cfg.CategoriesPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromFileEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAILPILOT_PORT", "9999")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadFromFileMissing(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
