package tui

import (
	"errors"
	"strings"

	"github.com/bnema/autumn-cli/internal/adapters/render/billing"
	"github.com/bnema/autumn-cli/internal/application"
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldName = iota
	fieldEmail
)

type customerState struct {
	id         domain.CustomerID
	phase      phase
	view       domain.CustomerView
	refreshing bool
	err        error
	notice     string

	editing bool
	saving  bool
	fields  [2]textinput.Model
	focus   int
	editErr error

	confirmDelete bool
	deleting      bool
	deleteErr     error
}

func (m Model) enterCustomer(id domain.CustomerID) (Model, tea.Cmd) {
	m.customer = customerState{id: id, phase: phaseLoading}
	if view, ok := m.billing.PeekCustomer(id); ok {
		m.customer.view = view
		m.customer.phase = phaseReady
	}

	return m, m.loadCustomer(id, false)
}

func (m Model) loadCustomer(id domain.CustomerID, force bool) tea.Cmd {
	ctx, source := m.ctx, m.billing
	return func() tea.Msg {
		fetch := source.Customer
		if force {
			fetch = source.RefreshCustomer
		}
		view, err := fetch(ctx, id)
		return customerLoadedMsg{id: id, view: view, err: err}
	}
}

func (m Model) handleCustomerLoaded(msg customerLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.customer.id {
		return m, nil
	}

	m.customer.refreshing = false
	switch {
	case errors.Is(msg.err, domain.ErrCustomerNotFound):
		m.customer.view = nil
		m.customer.phase = phaseReady
		m.customer.err = nil
	case msg.err != nil:
		m.customer.err = msg.err
		if m.customer.view == nil {
			m.customer.phase = phaseError
		}
	default:
		m.customer.view = msg.view
		m.customer.phase = phaseReady
		m.customer.err = nil
	}

	return m, nil
}

func (m Model) customerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.customer.editing:
		return m.editKeys(msg)
	case m.customer.confirmDelete:
		return m.deleteKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Refresh):
		if m.customer.refreshing {
			return m, nil
		}
		m.customer.refreshing = true
		m.customer.notice = ""
		if m.customer.view == nil {
			m.customer.phase = phaseLoading
		}
		return m, m.loadCustomer(m.customer.id, true)
	case key.Matches(msg, m.keys.Edit):
		if m.customer.view == nil {
			return m, nil
		}
		return m.openEditDialog()
	case key.Matches(msg, m.keys.Delete):
		if m.customer.view == nil {
			return m, nil
		}
		m.customer.confirmDelete = true
		m.customer.deleteErr = nil
		m.customer.notice = ""
		return m, nil
	}

	return m, nil
}

func (m Model) openEditDialog() (Model, tea.Cmd) {
	profile := m.customer.view.Profile()

	name := textinput.New()
	name.Prompt = "Name:  "
	name.Placeholder = "Customer name"
	name.SetValue(profile.Name)
	name.Width = 40

	email := textinput.New()
	email.Prompt = "Email: "
	email.Placeholder = "name@example.com"
	email.SetValue(profile.Email)
	email.Width = 40

	m.customer.fields = [2]textinput.Model{name, email}
	m.customer.focus = fieldName
	m.customer.editing = true
	m.customer.saving = false
	m.customer.editErr = nil
	m.customer.notice = ""

	cmd := m.customer.fields[fieldName].Focus()
	return m, tea.Batch(cmd, textinput.Blink)
}

func (m Model) editKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.customer.saving {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.customer.editing = false
		m.customer.editErr = nil
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.customer.fields[fieldName].Value())
		email := strings.TrimSpace(m.customer.fields[fieldEmail].Value())
		m.customer.saving = true
		m.customer.editErr = nil
		return m, m.updateCustomer(application.UpdateCustomerCommand{
			ID:    m.customer.id,
			Name:  &name,
			Email: &email,
		})
	}

	if key.Matches(msg, m.keys.NextField) {
		m.customer.fields[m.customer.focus].Blur()
		m.customer.focus = (m.customer.focus + 1) % len(m.customer.fields)
		return m, m.customer.fields[m.customer.focus].Focus()
	}

	var cmd tea.Cmd
	m.customer.fields[m.customer.focus], cmd = m.customer.fields[m.customer.focus].Update(msg)
	return m, cmd
}

func (m Model) updateCustomer(cmd application.UpdateCustomerCommand) tea.Cmd {
	ctx, source := m.ctx, m.billing
	return func() tea.Msg {
		view, err := source.UpdateCustomer(ctx, cmd)
		return customerUpdatedMsg{id: cmd.ID, view: view, err: err}
	}
}

func (m Model) handleCustomerUpdated(msg customerUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.customer.id {
		return m, nil
	}

	m.customer.saving = false
	if msg.err != nil {
		m.customer.editErr = msg.err
		return m, nil
	}

	m.customer.editing = false
	m.customer.view = msg.view
	m.customer.phase = phaseReady
	m.customer.notice = "Customer updated."
	return m, nil
}

func (m Model) deleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.customer.deleting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.customer.deleting = true
		m.customer.deleteErr = nil
		return m, m.deleteCustomer(m.customer.id)
	case key.Matches(msg, m.keys.Cancel):
		m.customer.confirmDelete = false
		m.customer.deleteErr = nil
	}

	return m, nil
}

func (m Model) deleteCustomer(id domain.CustomerID) tea.Cmd {
	ctx, source := m.ctx, m.billing
	return func() tea.Msg {
		return customerDeletedMsg{id: id, err: source.DeleteCustomer(ctx, id)}
	}
}

func (m Model) handleCustomerDeleted(msg customerDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.customer.id {
		return m, nil
	}

	m.customer.deleting = false
	if msg.err != nil {
		m.customer.deleteErr = msg.err
		return m, nil
	}

	m.customer.confirmDelete = false
	return m.back()
}

func (m Model) customerView() string {
	switch m.customer.phase {
	case phaseLoading, phaseIdle:
		return m.loading("Loading customer...")
	case phaseError:
		return joinNonEmpty(m.alert(m.customer.err), m.styles.muted.Render("Press r to retry or esc to go back."))
	}

	lines := []string{billing.Customer(m.customer.view, m.renderOptions())}

	switch {
	case m.customer.editing:
		lines = append(lines, m.editDialogView())
	case m.customer.confirmDelete:
		lines = append(lines, m.deleteDialogView())
	}

	if m.customer.refreshing {
		lines = append(lines, "", m.loading("Refreshing..."))
	}
	if m.customer.notice != "" {
		lines = append(lines, "", m.styles.success.Render(m.customer.notice))
	}
	if m.customer.err != nil {
		lines = append(lines, "", m.alert(m.customer.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) editDialogView() string {
	lines := []string{
		m.styles.label.Render("Edit customer"),
		m.customer.fields[fieldName].View(),
		m.customer.fields[fieldEmail].View(),
	}
	if m.customer.saving {
		lines = append(lines, m.loading("Saving..."))
	}
	if m.customer.editErr != nil {
		lines = append(lines, m.alert(m.customer.editErr))
	}
	lines = append(lines, m.styles.muted.Render("enter save • tab next field • esc cancel"))

	return m.styles.dialog.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) deleteDialogView() string {
	name := m.customer.view.Profile().DisplayName()
	lines := []string{
		m.styles.label.Render("Delete " + name + "?"),
		m.styles.muted.Render("This removes the customer from Autumn and cannot be undone."),
	}
	if m.customer.deleting {
		lines = append(lines, m.loading("Deleting..."))
	}
	if m.customer.deleteErr != nil {
		lines = append(lines, m.alert(m.customer.deleteErr))
	}
	lines = append(lines, m.styles.muted.Render("y confirm • n cancel"))

	return m.styles.dialog.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
