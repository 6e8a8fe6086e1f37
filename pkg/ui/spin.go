package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

type (
	// Step describes a long running operation shown with a spinner.
	Step struct {
		// Title is shown while the step runs, e.g. "Creating Neon project...".
		Title string

		// Done replaces the title once the step succeeds. Empty keeps the title.
		Done string
	}

	stepModel struct {
		step    Step
		styles  styles
		spinner spinner.Model
		run     func() error
		cancel  context.CancelFunc

		finished bool
		err      error
	}

	stepDoneMsg struct{ err error }
)

// Spin runs fn while showing step's title next to a spinner and blocks until
// fn returns. Pressing ctrl+c cancels the context passed to fn. On writers
// that are not terminals the title and completion are printed as plain lines.
func (p *Printer) Spin(ctx context.Context, step Step, fn func(context.Context) error) error {
	if step.Done == "" {
		step.Done = step.Title
	}

	if !p.color {
		fmt.Fprintln(p.w, step.Title)
		if err := fn(ctx); err != nil {
			return err
		}

		p.Success("%s", step.Done)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = p.styles.spinner

	m := stepModel{
		step:    step,
		styles:  p.styles,
		spinner: s,
		run:     func() error { return fn(ctx) },
		cancel:  cancel,
	}

	final, err := tea.NewProgram(m, tea.WithOutput(p.w)).Run()
	if err != nil {
		return errors.Wrap(err, "failed to run progress display")
	}

	return final.(stepModel).err
}

func (m stepModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return stepDoneMsg{err: m.run()}
	})
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
		}

		return m, nil

	case stepDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m stepModel) View() string {
	if !m.finished {
		return fmt.Sprintf("%s %s", m.spinner.View(), m.step.Title)
	}

	if m.err != nil {
		return fmt.Sprintf("%s %s\n", m.styles.err.Render(errorMark), m.step.Title)
	}

	return fmt.Sprintf("%s %s\n", m.styles.success.Render(successMark), m.step.Done)
}
