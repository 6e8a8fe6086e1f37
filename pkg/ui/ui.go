// Package ui holds the terminal presentation used by the pgenie commands:
// status lines, progress spinners and colored patch review output.
//
// All output degrades to plain text when the destination writer is not a
// terminal, so command output captured in tests is stable.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	successMark = "✓"
	warnMark    = "!"
	errorMark   = "✗"
)

type (
	// Printer writes styled status lines to a writer.
	Printer struct {
		w      io.Writer
		color  bool
		styles styles
	}

	styles struct {
		success lipgloss.Style
		warn    lipgloss.Style
		err     lipgloss.Style
		header  lipgloss.Style
		faint   lipgloss.Style
		spinner lipgloss.Style

		file    lipgloss.Style
		hunk    lipgloss.Style
		add     lipgloss.Style
		addEmph lipgloss.Style
		del     lipgloss.Style
		delEmph lipgloss.Style
		context lipgloss.Style
	}
)

// New returns a Printer for w. Colors are enabled only when w is a terminal.
func New(w io.Writer) *Printer {
	return newPrinter(w, lipgloss.NewRenderer(w), IsTerminal(w))
}

func newPrinter(w io.Writer, r *lipgloss.Renderer, color bool) *Printer {
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)

	return &Printer{
		w:     w,
		color: color,
		styles: styles{
			success: base.Foreground(lipgloss.Color("78")),
			warn:    base.Foreground(lipgloss.Color("214")),
			err:     base.Foreground(lipgloss.Color("197")),
			header:  base.Bold(true).Foreground(lipgloss.Color("63")),
			faint:   base.Faint(true),
			spinner: base.Foreground(lipgloss.Color("205")),

			file:    base.Bold(true),
			hunk:    base.Foreground(lipgloss.Color("81")),
			add:     base.Foreground(lipgloss.Color("78")),
			addEmph: base.Foreground(lipgloss.Color("78")).Bold(true).Underline(true),
			del:     base.Foreground(lipgloss.Color("245")),
			delEmph: base.Foreground(lipgloss.Color("245")).Strikethrough(true),
			context: base,
		},
	}
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

func (p *Printer) Success(format string, args ...any) {
	p.status(p.styles.success, successMark, format, args...)
}

func (p *Printer) Warn(format string, args ...any) {
	p.status(p.styles.warn, warnMark, format, args...)
}

// Error writes a line prefixed with a red ✗ marker.
func (p *Printer) Error(format string, args ...any) {
	p.status(p.styles.err, errorMark, format, args...)
}

// Info writes an unadorned line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Title writes a bold heading line.
func (p *Printer) Title(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(p.styles.header, fmt.Sprintf(format, args...)))
}

// Note writes a dimmed line.
func (p *Printer) Note(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(p.styles.faint, fmt.Sprintf(format, args...)))
}

func (p *Printer) status(style lipgloss.Style, mark, format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint(style, mark), fmt.Sprintf(format, args...))
}

// paint renders s with style when color is enabled and returns s untouched
// otherwise.
func (p *Printer) paint(style lipgloss.Style, s string) string {
	if !p.color || s == "" {
		return s
	}

	return style.Render(s)
}
