package domain

import (
	"fmt"
	"strings"
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeLight
)

func ParseTheme(raw string) (Theme, error) {
	switch theme := Theme(strings.ToLower(strings.TrimSpace(raw))); theme {
	case ThemeLight, ThemeDark:
		return theme, nil
	default:
		return "", fmt.Errorf("unsupported theme %q (want light or dark)", raw)
	}
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) Label() string {
	if t == ThemeDark {
		return "Dark"
	}
	return "Light"
}

type Preferences struct {
	Theme     Theme
	UpdatedAt time.Time
}

// DefaultPreferences is what a fresh install starts with.
func DefaultPreferences() Preferences {
	return Preferences{Theme: DefaultTheme}
}
