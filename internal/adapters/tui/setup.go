package tui

import (
	"strings"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const emptyKeyAlert = "Please enter your API key"

type setupState struct {
	input textinput.Model
	phase phase
	alert string
}

func newKeyInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "API key: "
	input.Placeholder = "am_sk_..."
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 256
	input.Width = 48
	input.Focus()
	return input
}

func (m Model) enterSetup() (Model, tea.Cmd) {
	m.setup = setupState{input: newKeyInput(), phase: phaseIdle}
	return m, textinput.Blink
}

func (m Model) setupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.setup.phase == phaseLoading {
		return m, nil
	}

	if key.Matches(msg, m.keys.Enter) {
		secret := strings.TrimSpace(m.setup.input.Value())
		if secret == "" {
			m.setup.alert = emptyKeyAlert
			return m, nil
		}

		m.setup.phase = phaseLoading
		m.setup.alert = ""
		return m, m.saveCredential(secret)
	}

	var cmd tea.Cmd
	m.setup.input, cmd = m.setup.input.Update(msg)
	return m, cmd
}

func (m Model) saveCredential(secret string) tea.Cmd {
	ctx, credentials := m.ctx, m.credentials
	return func() tea.Msg {
		return credentialSavedMsg{err: credentials.Save(ctx, secret)}
	}
}

func (m Model) handleCredentialSaved(msg credentialSavedMsg) (tea.Model, tea.Cmd) {
	if m.route.Screen != domain.ScreenSetup {
		return m, nil
	}
	if msg.err != nil {
		m.setup.phase = phaseError
		m.setup.alert = errorMessage(msg.err)
		return m, nil
	}

	return m.replace(domain.RouteDashboard)
}

func (m Model) setupView() string {
	intro := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.label.Render("Connect your Autumn account"),
		m.styles.muted.Render("Paste a secret key from the Autumn dashboard. It is stored with pass, or in a private file when pass is unavailable."),
	)

	status := ""
	switch {
	case m.setup.phase == phaseLoading:
		status = m.loading("Saving key...")
	case m.setup.alert != "":
		status = m.styles.alert.Render(m.setup.alert)
	}

	return lipgloss.JoinVertical(lipgloss.Left, intro, "", m.setup.input.View(), status)
}
