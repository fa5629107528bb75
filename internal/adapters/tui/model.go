// Package tui is the interactive console: setup, dashboard, customer detail
// and settings screens on top of the cached billing data.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/bnema/autumn-cli/internal/adapters/render/billing"
	"github.com/bnema/autumn-cli/internal/application"
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Billing is the cached read/write surface the screens use.
type Billing interface {
	PeekCustomers() (domain.CustomerPage, bool)
	Customers(ctx context.Context) (domain.CustomerPage, error)
	RefreshCustomers(ctx context.Context) (domain.CustomerPage, error)
	PeekCustomer(id domain.CustomerID) (domain.CustomerView, bool)
	Customer(ctx context.Context, id domain.CustomerID) (domain.CustomerView, error)
	RefreshCustomer(ctx context.Context, id domain.CustomerID) (domain.CustomerView, error)
	PeekOrganization() (domain.Organization, bool)
	Organization(ctx context.Context) (domain.Organization, error)
	UpdateCustomer(ctx context.Context, cmd application.UpdateCustomerCommand) (domain.CustomerView, error)
	DeleteCustomer(ctx context.Context, id domain.CustomerID) error
	ClearSession(ctx context.Context) error
}

type Credentials interface {
	Save(ctx context.Context, secret string) error
}

type Preferences interface {
	ToggleTheme(ctx context.Context) (domain.Theme, error)
}

type Options struct {
	Context     context.Context
	Billing     Billing
	Credentials Credentials
	Preferences Preferences

	// Route is the launch screen, usually from application.SessionGate.
	Route domain.Route
	Theme domain.Theme

	RefreshInterval time.Duration
	Now             func() time.Time
}

// phase is the load state of one screen.
type phase int

const (
	phaseIdle phase = iota
	phaseLoading
	phaseReady
	phaseError
)

const sessionExpiredNotice = "Your API key was rejected. Please enter a valid key."

// Model is the root Bubble Tea model. It owns the navigation stack and
// delegates keys and messages to the active screen.
type Model struct {
	ctx         context.Context
	billing     Billing
	credentials Credentials
	preferences Preferences

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   domain.Theme
	styles  styles

	route   domain.Route
	history []domain.Route

	refreshInterval time.Duration
	tickGeneration  int
	now             func() time.Time

	width  int
	height int

	setup     setupState
	dashboard dashboardState
	customer  customerState
	settings  settingsState

	initCmd tea.Cmd
}

func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := opts.Theme
	if theme == "" {
		theme = domain.DefaultTheme
	}

	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = application.DefaultRefreshInterval
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	route := opts.Route
	if route.Screen == "" {
		route = domain.RouteSetup
	}

	m := Model{
		ctx:             ctx,
		billing:         opts.Billing,
		credentials:     opts.Credentials,
		preferences:     opts.Preferences,
		keys:            defaultKeyMap(),
		help:            help.New(),
		spinner:         spinner.New(spinner.WithSpinner(spinner.Dot)),
		refreshInterval: interval,
		now:             now,
	}
	m = m.withTheme(theme)
	m, m.initCmd = m.enter(route)

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initCmd)
}

// Route is the active screen.
func (m Model) Route() domain.Route {
	return m.route
}

func (m Model) Theme() domain.Theme {
	return m.theme
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case credentialSavedMsg:
		return m.handleCredentialSaved(msg)

	case customersLoadedMsg:
		if next, cmd, expired := m.expire(msg.err); expired {
			return next, cmd
		}
		return m.handleCustomersLoaded(msg)

	case dashboardTickMsg:
		return m.handleDashboardTick(msg)

	case customerLoadedMsg:
		if next, cmd, expired := m.expire(msg.err); expired {
			return next, cmd
		}
		return m.handleCustomerLoaded(msg)

	case customerUpdatedMsg:
		if next, cmd, expired := m.expire(msg.err); expired {
			return next, cmd
		}
		return m.handleCustomerUpdated(msg)

	case customerDeletedMsg:
		if next, cmd, expired := m.expire(msg.err); expired {
			return next, cmd
		}
		return m.handleCustomerDeleted(msg)

	case organizationLoadedMsg:
		if next, cmd, expired := m.expire(msg.err); expired {
			return next, cmd
		}
		return m.handleOrganizationLoaded(msg)

	case themeChangedMsg:
		return m.handleThemeChanged(msg)

	case sessionClearedMsg:
		return m.handleSessionCleared(msg)
	}

	if m.route.Screen == domain.ScreenSetup {
		var cmd tea.Cmd
		m.setup.input, cmd = m.setup.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if !m.capturingText() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	switch m.route.Screen {
	case domain.ScreenSetup:
		return m.setupKeys(msg)
	case domain.ScreenDashboard:
		return m.dashboardKeys(msg)
	case domain.ScreenCustomer:
		return m.customerKeys(msg)
	case domain.ScreenSettings:
		return m.settingsKeys(msg)
	}

	return m, nil
}

// capturingText reports whether printable keys belong to a text input.
func (m Model) capturingText() bool {
	return m.route.Screen == domain.ScreenSetup ||
		(m.route.Screen == domain.ScreenCustomer && m.customer.editing)
}

// navigate pushes the current screen and enters route.
func (m Model) navigate(route domain.Route) (Model, tea.Cmd) {
	m.history = append(m.history, m.route)
	return m.enter(route)
}

// replace enters route and forgets the navigation history.
func (m Model) replace(route domain.Route) (Model, tea.Cmd) {
	m.history = nil
	return m.enter(route)
}

func (m Model) back() (Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m.replace(domain.RouteDashboard)
	}

	previous := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.enter(previous)
}

func (m Model) enter(route domain.Route) (Model, tea.Cmd) {
	m.route = route
	// Leaving or re-entering any screen retires the pending dashboard tick.
	m.tickGeneration++

	switch route.Screen {
	case domain.ScreenDashboard:
		return m.enterDashboard()
	case domain.ScreenCustomer:
		return m.enterCustomer(route.CustomerID)
	case domain.ScreenSettings:
		return m.enterSettings()
	default:
		m.route = domain.RouteSetup
		return m.enterSetup()
	}
}

// expire sends the user back to setup when err reports a rejected key.
func (m Model) expire(err error) (Model, tea.Cmd, bool) {
	if !errors.Is(err, domain.ErrSessionExpired) {
		return m, nil, false
	}

	next, cmd := m.replace(domain.RouteSetup)
	next.setup.alert = sessionExpiredNotice
	return next, cmd, true
}

func (m Model) withTheme(theme domain.Theme) Model {
	m.theme = theme
	m.styles = newStyles(theme)
	m.spinner.Style = m.styles.spinner
	return m
}

func (m Model) renderOptions() billing.RenderOptions {
	return billing.RenderOptions{Now: m.now(), Theme: m.theme}
}

func (m Model) View() string {
	var body string
	switch m.route.Screen {
	case domain.ScreenDashboard:
		body = m.dashboardView()
	case domain.ScreenCustomer:
		body = m.customerView()
	case domain.ScreenSettings:
		body = m.settingsView()
	default:
		body = m.setupView()
	}

	header := m.styles.brand.Render("au") + " " + m.styles.crumb.Render(m.route.Path())

	return m.styles.app.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		"",
		m.help.View(m.keys.forScreen(m)),
	))
}

// loading renders the spinner line shown while a screen has no data yet.
func (m Model) loading(label string) string {
	return m.spinner.View() + " " + m.styles.muted.Render(label)
}

func (m Model) alert(err error) string {
	if err == nil {
		return ""
	}
	return m.styles.alert.Render(errorMessage(err))
}

func errorMessage(err error) string {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return err.Error()
	case domain.KindCredentialInvalid:
		return sessionExpiredNotice
	default:
		return "Request failed: " + err.Error()
	}
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, kept...)
}
