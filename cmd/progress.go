package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	billingrender "github.com/bnema/autumn-cli/internal/adapters/render/billing"
	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type loadedMsg[T any] struct {
	value T
	err   error
}

// progressModel spins until its load command reports back, then quits with
// the result kept on the model.
type progressModel[T any] struct {
	spinner spinner.Model
	label   string
	load    tea.Cmd

	value T
	err   error
	done  bool
}

func newProgressModel[T any](label string, theme domain.Theme, load tea.Cmd) progressModel[T] {
	palette := billingrender.PaletteFor(theme)

	return progressModel[T]{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(palette.Accent)),
		),
		label: lipgloss.NewStyle().Foreground(palette.Muted).Render(label),
		load:  load,
	}
}

func (m progressModel[T]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

func (m progressModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadedMsg[T]:
		m.value, m.err, m.done = msg.value, msg.err, true
		return m, tea.Quit
	}

	return m, nil
}

func (m progressModel[T]) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label
}

// loadWithProgress runs load behind a spinner on stderr. The spinner is
// skipped for machine output and when stderr is not a terminal.
func loadWithProgress[T any](cmd *cobra.Command, app *app, label string, quiet bool, load func(context.Context) (T, error)) (T, error) {
	ctx := cmd.Context()
	output := cmd.ErrOrStderr()
	if quiet || !isTerminal(output) {
		return load(ctx)
	}

	loadCmd := func() tea.Msg {
		value, err := load(ctx)
		return loadedMsg[T]{value: value, err: err}
	}

	program := tea.NewProgram(
		newProgressModel[T](label, app.theme(ctx), loadCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	var zero T
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, fmt.Errorf("run progress: %w", err)
	}

	result, ok := final.(progressModel[T])
	if !ok {
		return zero, fmt.Errorf("unexpected final progress model type %T", final)
	}

	return result.value, result.err
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
