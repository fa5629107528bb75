package billing

import (
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme provides. The interactive screens
// build their own styles from it.
type Palette struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Faint   lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color
	Border  lipgloss.Color
}

func PaletteFor(theme domain.Theme) Palette {
	if theme == domain.ThemeDark {
		return Palette{
			Text:    lipgloss.Color("252"),
			Muted:   lipgloss.Color("245"),
			Faint:   lipgloss.Color("240"),
			Accent:  lipgloss.Color("214"),
			Success: lipgloss.Color("114"),
			Warning: lipgloss.Color("221"),
			Danger:  lipgloss.Color("203"),
			Border:  lipgloss.Color("238"),
		}
	}

	return Palette{
		Text:    lipgloss.Color("235"),
		Muted:   lipgloss.Color("243"),
		Faint:   lipgloss.Color("249"),
		Accent:  lipgloss.Color("166"),
		Success: lipgloss.Color("28"),
		Warning: lipgloss.Color("136"),
		Danger:  lipgloss.Color("160"),
		Border:  lipgloss.Color("252"),
	}
}

func (p Palette) ToneColor(tone domain.Tone) lipgloss.Color {
	switch tone {
	case domain.ToneSuccess:
		return p.Success
	case domain.ToneWarning:
		return p.Warning
	case domain.ToneDanger:
		return p.Danger
	default:
		return p.Muted
	}
}

type styles struct {
	palette    Palette
	title      lipgloss.Style
	header     lipgloss.Style
	name       lipgloss.Style
	detail     lipgloss.Style
	warning    lipgloss.Style
	section    lipgloss.Style
	label      lipgloss.Style
	empty      lipgloss.Style
	avatar     lipgloss.Style
	statValue  lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles(theme domain.Theme) styles {
	p := PaletteFor(theme)

	return styles{
		palette:    p,
		title:      lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		header:     lipgloss.NewStyle().Foreground(p.Muted),
		name:       lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		detail:     lipgloss.NewStyle().Foreground(p.Text),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(p.Danger),
		section:    lipgloss.NewStyle().MarginTop(1),
		label:      lipgloss.NewStyle().Bold(true).Foreground(p.Muted),
		empty:      lipgloss.NewStyle().Faint(true),
		avatar:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		statValue:  lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		barBracket: lipgloss.NewStyle().Foreground(p.Faint),
		barFill:    lipgloss.NewStyle().Foreground(p.Success),
		barEmpty:   lipgloss.NewStyle().Foreground(p.Border),
	}
}

func (s styles) chip(label string, tone domain.Tone) string {
	return lipgloss.NewStyle().Foreground(s.palette.ToneColor(tone)).Render("● " + label)
}
