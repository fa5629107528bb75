package application

import (
	"fmt"
	"strings"

	"github.com/bnema/autumn-cli/internal/domain"
)

// UpdateCustomerCommand is the edit dialog payload. A nil field is left
// unchanged remotely.
type UpdateCustomerCommand struct {
	ID    domain.CustomerID
	Name  *string
	Email *string
}

func (c UpdateCustomerCommand) Patch() (domain.CustomerPatch, error) {
	if strings.TrimSpace(string(c.ID)) == "" {
		return domain.CustomerPatch{}, domain.ErrMissingCustomer
	}

	patch := domain.CustomerPatch{Name: c.Name, Email: c.Email}
	if patch.IsEmpty() {
		return domain.CustomerPatch{}, domain.ErrEmptyPatch
	}

	return patch, nil
}

type ThemeMode string

const (
	ThemeModeLight  ThemeMode = "light"
	ThemeModeDark   ThemeMode = "dark"
	ThemeModeToggle ThemeMode = "toggle"
)

func ParseThemeMode(raw string) (ThemeMode, error) {
	switch mode := ThemeMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case ThemeModeLight, ThemeModeDark, ThemeModeToggle:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported theme mode %q (want light, dark or toggle)", raw)
	}
}

// Apply returns the theme that results from running the mode on current.
func (m ThemeMode) Apply(current domain.Theme) domain.Theme {
	switch m {
	case ThemeModeDark:
		return domain.ThemeDark
	case ThemeModeLight:
		return domain.ThemeLight
	default:
		return current.Toggle()
	}
}
