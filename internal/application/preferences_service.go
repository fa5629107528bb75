package application

import (
	"context"
	"fmt"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/bnema/autumn-cli/internal/ports"
)

type PreferencesService struct {
	repo  ports.PreferencesRepository
	clock ports.Clock
}

func NewPreferencesService(repo ports.PreferencesRepository, clock ports.Clock) *PreferencesService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &PreferencesService{repo: repo, clock: clock}
}

func (s *PreferencesService) Load(ctx context.Context) (domain.Preferences, error) {
	prefs, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}

	return prefs, nil
}

// ApplyTheme runs mode against the persisted theme and saves the result.
func (s *PreferencesService) ApplyTheme(ctx context.Context, mode ThemeMode) (domain.Theme, error) {
	prefs, err := s.Load(ctx)
	if err != nil {
		return "", err
	}

	prefs.Theme = mode.Apply(prefs.Theme)
	prefs.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, prefs); err != nil {
		return "", fmt.Errorf("save preferences: %w", err)
	}

	return prefs.Theme, nil
}

func (s *PreferencesService) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	return s.ApplyTheme(ctx, ThemeModeToggle)
}
