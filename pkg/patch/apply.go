package patch

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrConflict is matched by every error Apply returns.
var ErrConflict = errors.New("patch does not apply")

// ConflictError describes why a patch could not be applied to a base text.
// Hunk and Line are 1-based; zero means the failure is not tied to a
// specific hunk or line.
type ConflictError struct {
	Hunk   int
	Line   int
	Reason string
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	b.WriteString(ErrConflict.Error())

	if e.Hunk > 0 {
		fmt.Fprintf(&b, ": hunk #%d", e.Hunk)
		if e.Line > 0 {
			fmt.Fprintf(&b, " at line %d", e.Line)
		}
	}

	b.WriteString(": ")
	b.WriteString(e.Reason)

	return b.String()
}

// Is makes errors.Is(err, ErrConflict) true for every *ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Apply applies p to base and returns the merged text.
//
// Application is strict. If the patch records an original hash, base must
// match it. Every context and deleted line must equal the base line at the
// position the hunk header names, and when the patch records a candidate hash
// the merged text must match it. Any mismatch returns a *ConflictError and no
// text.
//
// Example:
//
//	p := patch.Compute("schema.ts", current, proposed)
//	merged, err := patch.Apply(current, p) // merged == proposed
func Apply(base string, p *Patch) (string, error) {
	if p == nil {
		return base, nil
	}

	if p.OldHash != "" && Hash(base) != p.OldHash {
		return "", &ConflictError{Reason: "base text differs from the text the patch was computed against"}
	}

	lines := splitLines(base)
	var out strings.Builder
	out.Grow(len(base))

	cursor := 0
	for i, h := range p.Hunks {
		hunk := i + 1

		if old, new := h.counts(); old != h.OldLines || new != h.NewLines {
			return "", &ConflictError{
				Hunk:   hunk,
				Reason: fmt.Sprintf("header %s does not match body (-%d +%d)", h.Header(), old, new),
			}
		}

		start := h.OldStart - 1
		if h.OldLines == 0 {
			start = h.OldStart
		}

		if start < cursor || start > len(lines) {
			return "", &ConflictError{Hunk: hunk, Reason: "hunk is out of order or past the end of the text"}
		}

		for _, l := range lines[cursor:start] {
			out.WriteString(l)
		}

		pos := start
		for _, l := range h.Lines {
			if l.Op == OpAdd {
				out.WriteString(l.Text)
				continue
			}

			if pos >= len(lines) {
				return "", &ConflictError{Hunk: hunk, Line: pos + 1, Reason: "text ends before the hunk does"}
			}

			if lines[pos] != l.Text {
				return "", &ConflictError{
					Hunk:   hunk,
					Line:   pos + 1,
					Reason: fmt.Sprintf("expected %q, found %q", l.Text, lines[pos]),
				}
			}

			if l.Op == OpContext {
				out.WriteString(l.Text)
			}

			pos++
		}

		cursor = pos
	}

	for _, l := range lines[cursor:] {
		out.WriteString(l)
	}

	merged := out.String()
	if p.NewHash != "" && Hash(merged) != p.NewHash {
		return "", &ConflictError{Reason: "merged text differs from the reviewed candidate"}
	}

	return merged, nil
}
