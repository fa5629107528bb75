package tui

import (
	"github.com/bnema/autumn-cli/internal/adapters/render/billing"
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	app      lipgloss.Style
	brand    lipgloss.Style
	crumb    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	success  lipgloss.Style
	alert    lipgloss.Style
	dialog   lipgloss.Style
	label    lipgloss.Style
	spinner  lipgloss.Style
}

func newStyles(theme domain.Theme) styles {
	p := billing.PaletteFor(theme)

	return styles{
		app:      lipgloss.NewStyle().Padding(1, 2),
		brand:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		crumb:    lipgloss.NewStyle().Foreground(p.Muted),
		muted:    lipgloss.NewStyle().Foreground(p.Muted),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		success:  lipgloss.NewStyle().Foreground(p.Success),
		alert:    lipgloss.NewStyle().Bold(true).Foreground(p.Danger),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1).
			MarginTop(1),
		label:   lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		spinner: lipgloss.NewStyle().Foreground(p.Accent),
	}
}
