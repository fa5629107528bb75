package toml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*PreferencesRepository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "autumn", "preferences.toml")
	config := viper.New()
	config.Set("preferences.path", path)

	repo, err := NewPreferencesRepository(config)
	require.NoError(t, err)

	return repo, path
}

func TestPreferencesRepositoryLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)

	prefs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), prefs)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPreferencesRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	updatedAt := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Save(context.Background(), domain.Preferences{Theme: domain.ThemeDark, UpdatedAt: updatedAt}))

	prefs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Preferences{Theme: domain.ThemeDark, UpdatedAt: updatedAt}, prefs)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "theme = 'dark'")
}

func TestPreferencesRepositorySaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)

	require.NoError(t, repo.Save(context.Background(), domain.Preferences{Theme: domain.ThemeDark}))
	require.NoError(t, repo.Save(context.Background(), domain.Preferences{Theme: domain.ThemeLight}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), "leftover temp file %s", entry.Name())
	}
}

func TestPreferencesRepositoryRejectsUnknownThemeOnSave(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	err := repo.Save(context.Background(), domain.Preferences{Theme: "sepia"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported theme")
}

func TestPreferencesRepositoryFallsBackOnHandEditedTheme(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n[appearance]\ntheme = 'neon'\n"), 0o600))

	prefs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, prefs.Theme)
}

func TestPreferencesRepositoryRejectsFutureSchemaVersion(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported preferences schema version 99")
}

func TestPreferencesRepositoryRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("version = \n"), 0o600))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode preferences file")
}

func TestPreferencesRepositoryHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, repo.Save(ctx, domain.DefaultPreferences()), context.Canceled)
}

func TestPreferencesRepositoryConcurrentSavesShareLock(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	config := viper.New()
	config.Set("preferences.path", path)
	other, err := NewPreferencesRepository(config)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := repo
			theme := domain.ThemeLight
			if i%2 == 0 {
				target = other
				theme = domain.ThemeDark
			}
			assert.NoError(t, target.Save(context.Background(), domain.Preferences{Theme: theme}))
		}(i)
	}
	wg.Wait()

	prefs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, []domain.Theme{domain.ThemeLight, domain.ThemeDark}, prefs.Theme)
}
