package tui

import (
	"time"

	"github.com/bnema/autumn-cli/internal/adapters/render/billing"
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dashboardState struct {
	phase      phase
	summary    domain.DashboardSummary
	loaded     bool
	refreshing bool
	cursor     int
	err        error
}

// enterDashboard serves the cached list at once, then revalidates it and
// starts the refresh ticker for this visit.
func (m Model) enterDashboard() (Model, tea.Cmd) {
	m.dashboard.err = nil
	m.dashboard.refreshing = false
	if page, ok := m.billing.PeekCustomers(); ok {
		m.dashboard.summary = domain.SummarizeCustomers(page)
		m.dashboard.loaded = true
		m.dashboard.phase = phaseReady
	} else {
		m.dashboard.loaded = false
		m.dashboard.phase = phaseLoading
	}
	m.dashboard.cursor = clampCursor(m.dashboard.cursor, len(m.dashboard.summary.Recent))

	return m, tea.Batch(m.loadCustomers(false), m.scheduleDashboardTick())
}

func (m Model) loadCustomers(force bool) tea.Cmd {
	ctx, source := m.ctx, m.billing
	return func() tea.Msg {
		fetch := source.Customers
		if force {
			fetch = source.RefreshCustomers
		}
		page, err := fetch(ctx)
		return customersLoadedMsg{page: page, err: err}
	}
}

func (m Model) scheduleDashboardTick() tea.Cmd {
	generation := m.tickGeneration
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return dashboardTickMsg{generation: generation}
	})
}

func (m Model) handleDashboardTick(msg dashboardTickMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.tickGeneration || m.route.Screen != domain.ScreenDashboard {
		return m, nil
	}

	m.dashboard.refreshing = true
	return m, tea.Batch(m.loadCustomers(true), m.scheduleDashboardTick())
}

func (m Model) handleCustomersLoaded(msg customersLoadedMsg) (tea.Model, tea.Cmd) {
	m.dashboard.refreshing = false
	if msg.err != nil {
		m.dashboard.err = msg.err
		if !m.dashboard.loaded {
			m.dashboard.phase = phaseError
		}
		return m, nil
	}

	m.dashboard.summary = domain.SummarizeCustomers(msg.page)
	m.dashboard.loaded = true
	m.dashboard.phase = phaseReady
	m.dashboard.err = nil
	m.dashboard.cursor = clampCursor(m.dashboard.cursor, len(m.dashboard.summary.Recent))

	return m, nil
}

func (m Model) dashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	recent := m.dashboard.summary.Recent

	switch {
	case key.Matches(msg, m.keys.Up):
		m.dashboard.cursor = clampCursor(m.dashboard.cursor-1, len(recent))
	case key.Matches(msg, m.keys.Down):
		m.dashboard.cursor = clampCursor(m.dashboard.cursor+1, len(recent))
	case key.Matches(msg, m.keys.Enter):
		if len(recent) == 0 {
			return m, nil
		}
		return m.navigate(domain.CustomerRoute(recent[m.dashboard.cursor].ID))
	case key.Matches(msg, m.keys.Refresh):
		if m.dashboard.refreshing {
			return m, nil
		}
		m.dashboard.refreshing = true
		if !m.dashboard.loaded {
			m.dashboard.phase = phaseLoading
		}
		return m, m.loadCustomers(true)
	case key.Matches(msg, m.keys.Settings):
		return m.navigate(domain.RouteSettings)
	}

	return m, nil
}

func (m Model) dashboardView() string {
	switch m.dashboard.phase {
	case phaseLoading, phaseIdle:
		return m.loading("Loading customers...")
	case phaseError:
		return joinNonEmpty(m.alert(m.dashboard.err), m.styles.muted.Render("Press r to retry."))
	}

	opts := m.renderOptions()
	lines := []string{
		billing.DashboardStats(m.dashboard.summary, opts),
		"",
		m.styles.label.Render("Recent customers"),
	}

	if len(m.dashboard.summary.Recent) == 0 {
		lines = append(lines, m.styles.muted.Render("No customers yet."))
	}
	for i, customer := range m.dashboard.summary.Recent {
		cursor := "  "
		if i == m.dashboard.cursor {
			cursor = m.styles.selected.Render("> ")
		}
		lines = append(lines, cursor+billing.CustomerRow(customer, m.theme))
	}

	if m.dashboard.refreshing {
		lines = append(lines, "", m.loading("Refreshing..."))
	}
	if m.dashboard.err != nil {
		lines = append(lines, "", m.alert(m.dashboard.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func clampCursor(cursor, length int) int {
	if length == 0 || cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}
