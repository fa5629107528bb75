package ports

import (
	"context"

	"github.com/bnema/autumn-cli/internal/domain"
)

type PreferencesRepository interface {
	Load(ctx context.Context) (domain.Preferences, error)
	Save(ctx context.Context, prefs domain.Preferences) error
}
