package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bnema/autumn-cli/internal/adapters/autumn"
	billingrender "github.com/bnema/autumn-cli/internal/adapters/render/billing"
	tomlrepo "github.com/bnema/autumn-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/autumn-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/autumn-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/autumn-cli/internal/adapters/secrets/pass"
	"github.com/bnema/autumn-cli/internal/application"
	"github.com/bnema/autumn-cli/internal/config"
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/bnema/autumn-cli/internal/ports"
	"github.com/bnema/autumn-cli/internal/version"
	"github.com/spf13/viper"
)

var errNoSession = errors.New("no API key stored, run `au setup` first")

type app struct {
	cfg         config.Config
	logger      *slog.Logger
	credentials *application.CredentialService
	gate        *application.SessionGate
	sync        *application.SyncService
	preferences *application.PreferencesService
	now         func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger(os.Stderr)

	secretStore, err := newSecretStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	prefsRepo, err := tomlrepo.NewPreferencesRepository(cfg.Viper)
	if err != nil {
		return nil, fmt.Errorf("wire preferences repository: %w", err)
	}

	credentials := application.NewCredentialService(secretStore)
	clients := application.NewClientFactory(credentials, autumn.Factory(autumn.Options{
		BaseURL:        cfg.APIBaseURL,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.APITimeout,
		UserAgent:      version.UserAgent(),
		Logger:         logger,
	}))
	cache := application.NewQueryCache(ports.SystemClock{}, cfg.CacheStaleAfter)

	return &app{
		cfg:         cfg,
		logger:      logger,
		credentials: credentials,
		gate:        application.NewSessionGate(credentials),
		sync: application.NewSyncService(clients, credentials, cache, application.SyncOptions{
			CustomersLimit: cfg.CustomersLimit,
			Logger:         logger,
		}),
		preferences: application.NewPreferencesService(prefsRepo, ports.SystemClock{}),
		now:         time.Now,
	}, nil
}

func newSecretStore(cfg config.Config) (ports.SecretStore, error) {
	switch cfg.SecretsBackend {
	case config.SecretsBackendPass:
		return passstore.NewStore(cfg.SecretsPassPrefix), nil
	case config.SecretsBackendFile:
		return filestore.NewStore(cfg.SecretsDir), nil
	default:
		return chainstore.NewPassFirstWithFileFallback(cfg.SecretsPassPrefix, cfg.SecretsDir)
	}
}

// requireSession fails fast when no API key is stored, before any remote
// call is attempted.
func (a *app) requireSession(ctx context.Context) error {
	route, err := a.gate.Resolve(ctx)
	if err != nil {
		return err
	}
	if route == domain.RouteSetup {
		return errNoSession
	}
	return nil
}

// theme returns the persisted theme, or the default when the preferences
// file cannot be read.
func (a *app) theme(ctx context.Context) domain.Theme {
	prefs, err := a.preferences.Load(ctx)
	if err != nil {
		a.logger.Warn("load preferences failed, using default theme", "error", err)
		return domain.DefaultTheme
	}
	return prefs.Theme
}

func (a *app) renderOptions(ctx context.Context) billingrender.RenderOptions {
	return billingrender.RenderOptions{Now: a.now(), Theme: a.theme(ctx)}
}

// describe rewrites session expiry into an actionable message.
func describe(err error) error {
	if errors.Is(err, domain.ErrSessionExpired) {
		return fmt.Errorf("the stored API key was rejected and has been cleared, run `au setup`: %w", err)
	}
	return err
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
