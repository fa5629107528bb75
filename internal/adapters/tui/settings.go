package tui

import (
	"github.com/bnema/autumn-cli/internal/adapters/render/billing"
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsState struct {
	phase  phase
	org    domain.Organization
	err    error
	notice string

	confirmClear bool
	clearing     bool
}

func (m Model) enterSettings() (Model, tea.Cmd) {
	m.settings = settingsState{phase: phaseLoading}
	if org, ok := m.billing.PeekOrganization(); ok {
		m.settings.org = org
		m.settings.phase = phaseReady
	}

	return m, m.loadOrganization()
}

func (m Model) loadOrganization() tea.Cmd {
	ctx, source := m.ctx, m.billing
	return func() tea.Msg {
		org, err := source.Organization(ctx)
		return organizationLoadedMsg{org: org, err: err}
	}
}

func (m Model) handleOrganizationLoaded(msg organizationLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.settings.err = msg.err
		if m.settings.phase != phaseReady {
			m.settings.phase = phaseError
		}
		return m, nil
	}

	m.settings.org = msg.org
	m.settings.phase = phaseReady
	m.settings.err = nil
	return m, nil
}

func (m Model) settingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.settings.confirmClear {
		if m.settings.clearing {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.settings.clearing = true
			return m, m.clearSession()
		case key.Matches(msg, m.keys.Cancel):
			m.settings.confirmClear = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Theme):
		m.settings.notice = ""
		return m, m.toggleTheme()
	case key.Matches(msg, m.keys.ClearKey):
		m.settings.confirmClear = true
		m.settings.notice = ""
	}

	return m, nil
}

func (m Model) toggleTheme() tea.Cmd {
	ctx, preferences := m.ctx, m.preferences
	return func() tea.Msg {
		theme, err := preferences.ToggleTheme(ctx)
		return themeChangedMsg{theme: theme, err: err}
	}
}

func (m Model) handleThemeChanged(msg themeChangedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.settings.err = msg.err
		return m, nil
	}

	m = m.withTheme(msg.theme)
	m.settings.notice = "Theme set to " + msg.theme.Label() + "."
	return m, nil
}

func (m Model) clearSession() tea.Cmd {
	ctx, source := m.ctx, m.billing
	return func() tea.Msg {
		return sessionClearedMsg{err: source.ClearSession(ctx)}
	}
}

func (m Model) handleSessionCleared(msg sessionClearedMsg) (tea.Model, tea.Cmd) {
	m.settings.clearing = false
	if msg.err != nil {
		m.settings.confirmClear = false
		m.settings.err = msg.err
		return m, nil
	}

	return m.replace(domain.RouteSetup)
}

func (m Model) settingsView() string {
	lines := []string{
		m.styles.label.Render("Appearance"),
		m.styles.muted.Render("Theme: ") + m.theme.Label(),
		"",
		m.styles.label.Render("Organization"),
	}

	switch m.settings.phase {
	case phaseReady:
		lines = append(lines, billing.Organization(m.settings.org, m.renderOptions()))
	case phaseError:
		lines = append(lines, m.styles.muted.Render("Organization unavailable."))
	default:
		lines = append(lines, m.loading("Loading organization..."))
	}

	lines = append(lines, "", m.styles.label.Render("Session"),
		m.styles.muted.Render("Clearing the API key signs you out of this console."))

	if m.settings.confirmClear {
		dialog := []string{
			m.styles.label.Render("Clear the stored API key?"),
			m.styles.muted.Render("You will need to enter it again to continue."),
		}
		if m.settings.clearing {
			dialog = append(dialog, m.loading("Clearing..."))
		}
		dialog = append(dialog, m.styles.muted.Render("y confirm • n cancel"))
		lines = append(lines, m.styles.dialog.Render(lipgloss.JoinVertical(lipgloss.Left, dialog...)))
	}

	if m.settings.notice != "" {
		lines = append(lines, "", m.styles.success.Render(m.settings.notice))
	}
	if m.settings.err != nil {
		lines = append(lines, "", m.alert(m.settings.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
