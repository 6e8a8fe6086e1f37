package prompt

import (
	"io"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/ui"
)

// Terminal prompts on the controlling terminal with line editing.
type Terminal struct {
	out *ui.Printer
}

// NewTerminal returns a Terminal that reports rejected answers to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{out: ui.New(w)}
}

func (t *Terminal) ReadLine(label, def string) (string, error) {
	// A fresh liner per question keeps the terminal in cooked mode between
	// prompts, so spinners and subprocess output render normally.
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)

	var (
		answer string
		err    error
	)

	if def != "" {
		answer, err = line.PromptWithSuggestion(label+": ", def, -1)
	} else {
		answer, err = line.Prompt(label + ": ")
	}

	switch {
	case err == nil:
		return answer, nil
	case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
		return "", ErrAborted
	default:
		return "", errors.Wrap(err, "failed to read input")
	}
}

func (t *Terminal) Reject(err error) {
	t.out.Error("%s", err)
}
