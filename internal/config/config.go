package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = "autumn"
	envPrefix  = "AU"

	KeyAPIBaseURL              = "api.base_url"
	KeyAPITimeout              = "api.timeout"
	KeyCustomersLimit          = "customers.limit"
	KeyCustomersRefresh        = "customers.refresh_interval"
	KeyCacheStaleAfter         = "cache.stale_after"
	KeyPreferencesPath         = "preferences.path"
	KeySecretsDir              = "secrets.dir"
	KeySecretsPassPrefix       = "secrets.pass_prefix"
	KeySecretsBackend          = "secrets.backend"
	KeyLogLevel                = "log.level"
	DefaultAPIBaseURL          = "https://api.useautumn.com/v1"
	DefaultAPITimeout          = 30 * time.Second
	DefaultRefreshInterval     = 60 * time.Second
	DefaultCacheStaleAfter     = 30 * time.Second
	DefaultSecretsPassPrefix   = "autumn"
	DefaultSecretsBackend      = SecretsBackendAuto
	DefaultLogLevel            = "warn"
	defaultPreferencesFilename = "preferences.toml"
	defaultSecretsDirname      = "secrets"
)

// SecretsBackend selects where the API key is stored. Auto prefers pass and
// falls back to the secrets directory.
type SecretsBackend string

const (
	SecretsBackendAuto SecretsBackend = "auto"
	SecretsBackendPass SecretsBackend = "pass"
	SecretsBackendFile SecretsBackend = "file"
)

// Config is the resolved runtime configuration.
type Config struct {
	APIBaseURL        string
	APITimeout        time.Duration
	CustomersLimit    int
	RefreshInterval   time.Duration
	CacheStaleAfter   time.Duration
	PreferencesPath   string
	SecretsDir        string
	SecretsPassPrefix string
	SecretsBackend    SecretsBackend
	LogLevel          slog.Level

	// Viper is the instance the values were read from, shared with adapters
	// that resolve their own keys.
	Viper *viper.Viper
}

// Dir returns the configuration directory, honouring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, configDir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDir), nil
}

// Load reads config.toml from the configuration directory and applies AU_*
// environment overrides, e.g. AU_API_BASE_URL or AU_LOG_LEVEL. A missing
// config file is not an error.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	setDefaults(cfg, dir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return resolve(cfg)
}

func setDefaults(cfg *viper.Viper, dir string) {
	cfg.SetDefault(KeyAPIBaseURL, DefaultAPIBaseURL)
	cfg.SetDefault(KeyAPITimeout, DefaultAPITimeout)
	cfg.SetDefault(KeyCustomersLimit, domain.DefaultCustomerListLimit)
	cfg.SetDefault(KeyCustomersRefresh, DefaultRefreshInterval)
	cfg.SetDefault(KeyCacheStaleAfter, DefaultCacheStaleAfter)
	cfg.SetDefault(KeyPreferencesPath, filepath.Join(dir, defaultPreferencesFilename))
	cfg.SetDefault(KeySecretsDir, filepath.Join(dir, defaultSecretsDirname))
	cfg.SetDefault(KeySecretsPassPrefix, DefaultSecretsPassPrefix)
	cfg.SetDefault(KeySecretsBackend, string(DefaultSecretsBackend))
	cfg.SetDefault(KeyLogLevel, DefaultLogLevel)
}

func resolve(cfg *viper.Viper) (Config, error) {
	out := Config{
		APIBaseURL:        strings.TrimSpace(cfg.GetString(KeyAPIBaseURL)),
		APITimeout:        cfg.GetDuration(KeyAPITimeout),
		CustomersLimit:    cfg.GetInt(KeyCustomersLimit),
		RefreshInterval:   cfg.GetDuration(KeyCustomersRefresh),
		CacheStaleAfter:   cfg.GetDuration(KeyCacheStaleAfter),
		PreferencesPath:   cfg.GetString(KeyPreferencesPath),
		SecretsDir:        cfg.GetString(KeySecretsDir),
		SecretsPassPrefix: cfg.GetString(KeySecretsPassPrefix),
		SecretsBackend:    SecretsBackend(strings.ToLower(strings.TrimSpace(cfg.GetString(KeySecretsBackend)))),
		Viper:             cfg,
	}

	if out.APIBaseURL == "" {
		return Config{}, errors.New("api.base_url is empty")
	}
	if out.APITimeout <= 0 {
		out.APITimeout = DefaultAPITimeout
	}
	if out.CustomersLimit <= 0 || out.CustomersLimit > domain.DefaultCustomerListLimit {
		out.CustomersLimit = domain.DefaultCustomerListLimit
	}
	if out.RefreshInterval <= 0 {
		out.RefreshInterval = DefaultRefreshInterval
	}
	if out.CacheStaleAfter < 0 {
		out.CacheStaleAfter = 0
	}
	if out.PreferencesPath == "" {
		return Config{}, errors.New("preferences.path is empty")
	}
	if out.SecretsDir == "" {
		return Config{}, errors.New("secrets.dir is empty")
	}

	switch out.SecretsBackend {
	case SecretsBackendAuto, SecretsBackendPass, SecretsBackendFile:
	default:
		return Config{}, fmt.Errorf("unsupported secrets.backend %q (want auto, pass or file)", out.SecretsBackend)
	}

	level, err := ParseLogLevel(cfg.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, err
	}
	out.LogLevel = level

	return out, nil
}

func ParseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("parse log.level %q: %w", raw, err)
	}
	return level, nil
}

// NewLogger builds the process logger: text records on w at the configured
// level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}
