package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/bnema/autumn-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	preferencesPathKey    = "preferences.path"
	preferencesFileMode   = 0o600
	preferencesDirMode    = 0o700
	preferencesConfigDir  = ".config/autumn"
	preferencesConfigFile = "preferences.toml"
	tempFilePattern       = ".preferences-*.toml.tmp"
)

// PreferencesRepository persists the local UI preferences in a TOML file.
type PreferencesRepository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)

// NewPreferencesRepository resolves the file location from preferences.path,
// defaulting to ~/.config/autumn/preferences.toml.
func NewPreferencesRepository(cfg *viper.Viper) (*PreferencesRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(preferencesPathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, preferencesConfigDir, preferencesConfigFile)
	}

	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &PreferencesRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *PreferencesRepository) Path() string {
	return r.path
}

// Load returns domain.DefaultPreferences when the file does not exist yet.
func (r *PreferencesRepository) Load(ctx context.Context) (domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preferences{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Preferences{}, err
	}

	return fromSchema(file), nil
}

func (r *PreferencesRepository) Save(ctx context.Context, prefs domain.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := domain.ParseTheme(string(prefs.Theme)); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.Appearance.Theme = string(prefs.Theme)
	file.Meta.UpdatedAt = formatTime(prefs.UpdatedAt)

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *PreferencesRepository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read preferences file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode preferences file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *PreferencesRepository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), preferencesDirMode); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode preferences file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp preferences file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp preferences file: %w", err)
	}

	if err := tempFile.Chmod(preferencesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp preferences file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp preferences file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace preferences file: %w", err)
	}

	cleanup = false

	return nil
}

// fromSchema tolerates hand-edited files: an unknown theme falls back to
// the default instead of failing the launch.
func fromSchema(file fileSchema) domain.Preferences {
	prefs := domain.DefaultPreferences()
	if theme, err := domain.ParseTheme(file.Appearance.Theme); err == nil {
		prefs.Theme = theme
	}
	prefs.UpdatedAt = parseTime(file.Meta.UpdatedAt)

	return prefs
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve preferences path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
