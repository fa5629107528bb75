package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultAPITimeout, cfg.APITimeout)
	assert.Equal(t, 100, cfg.CustomersLimit)
	assert.Equal(t, 60*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.CacheStaleAfter)
	assert.Equal(t, filepath.Join(dir, "autumn", "preferences.toml"), cfg.PreferencesPath)
	assert.Equal(t, filepath.Join(dir, "autumn", "secrets"), cfg.SecretsDir)
	assert.Equal(t, "autumn", cfg.SecretsPassPrefix)
	assert.Equal(t, SecretsBackendAuto, cfg.SecretsBackend)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "autumn")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`
[api]
base_url = "http://localhost:8080/v1"
timeout = "5s"

[customers]
limit = 25
refresh_interval = "2m"

[log]
level = "debug"
`), 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/v1", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, 25, cfg.CustomersLimit)
	assert.Equal(t, 2*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadEnvOverridesConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AU_API_BASE_URL", "https://staging.example.com/v1")
	t.Setenv("AU_CACHE_STALE_AFTER", "0s")
	t.Setenv("AU_LOG_LEVEL", "error")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com/v1", cfg.APIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.CacheStaleAfter)
	assert.Equal(t, slog.LevelError, cfg.LogLevel)
}

func TestLoadCapsCustomersLimit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AU_CUSTOMERS_LIMIT", "500")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.CustomersLimit)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AU_LOG_LEVEL", "loud")

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.ErrorContains(t, err, "log.level")
}

func TestLoadSecretsBackend(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AU_SECRETS_BACKEND", " File ")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, SecretsBackendFile, cfg.SecretsBackend)

	t.Setenv("AU_SECRETS_BACKEND", "keychain")
	_, err = Load(viper.New())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported secrets.backend")
}

func TestLoadRejectsMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "autumn")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[api\n"), 0o600))

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.ErrorContains(t, err, "read config file")
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Config{LogLevel: slog.LevelWarn}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "key=value")
}
