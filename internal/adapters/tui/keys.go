package tui

import (
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up   key.Binding
	Down key.Binding

	Enter    key.Binding
	Back     key.Binding
	Refresh  key.Binding
	Settings key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Theme    key.Binding
	ClearKey key.Binding

	// Dialogs
	NextField key.Binding
	Confirm   key.Binding
	Cancel    key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit customer"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete customer"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		ClearKey: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear api key"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// screenKeys is the help.KeyMap of one screen.
type screenKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k screenKeys) ShortHelp() []key.Binding  { return k.short }
func (k screenKeys) FullHelp() [][]key.Binding { return k.full }

func (k keyMap) forScreen(m Model) screenKeys {
	switch {
	case m.customer.editing || m.customer.confirmDelete || m.settings.confirmClear:
		return screenKeys{short: []key.Binding{k.NextField, k.Confirm, k.Cancel}}
	}

	var short []key.Binding
	switch m.route.Screen {
	case domain.ScreenSetup:
		short = []key.Binding{k.Enter, k.Quit}
	case domain.ScreenDashboard:
		short = []key.Binding{k.Up, k.Down, k.Enter, k.Refresh, k.Settings, k.Quit}
	case domain.ScreenCustomer:
		short = []key.Binding{k.Edit, k.Delete, k.Refresh, k.Back, k.Quit}
	case domain.ScreenSettings:
		short = []key.Binding{k.Theme, k.ClearKey, k.Back, k.Quit}
	}

	return screenKeys{short: short, full: [][]key.Binding{short, {k.Help}}}
}
