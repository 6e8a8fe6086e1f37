package prompt

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Scripted answers prompts from lines read off an io.Reader, echoing each
// question and answer to an output writer. Running out of input aborts.
type Scripted struct {
	in  *bufio.Scanner
	out io.Writer

	// Rejections collects the messages of rejected answers, in order.
	Rejections []string
}

// NewScripted returns a Scripted prompter reading answers from r. Prompts are
// echoed to w, which may be io.Discard.
func NewScripted(r io.Reader, w io.Writer) *Scripted {
	return &Scripted{in: bufio.NewScanner(r), out: w}
}

func (s *Scripted) ReadLine(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}

	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		if err := s.in.Err(); err != nil {
			return "", errors.Wrap(err, "failed to read input")
		}

		return "", ErrAborted
	}

	answer := s.in.Text()
	fmt.Fprintln(s.out, answer)

	return answer, nil
}

func (s *Scripted) Reject(err error) {
	s.Rejections = append(s.Rejections, err.Error())
	fmt.Fprintf(s.out, "✗ %s\n", err)
}
