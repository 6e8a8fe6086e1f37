package patch

import (
	"fmt"
	"strings"
)

// noNewlineMarker follows a rendered line whose text has no trailing newline.
const noNewlineMarker = `\ No newline at end of file`

type (
	// Op identifies the role of a line within a hunk. Its value is the
	// prefix character used in the unified diff format.
	Op byte

	// Line is a single line of a hunk. Text holds the line content including
	// its terminating "\n", which is absent only for the final line of a text
	// that does not end in a newline.
	Line struct {
		Op   Op
		Text string
	}

	// Hunk is a contiguous block of changes plus surrounding context.
	//
	// Start positions follow the GNU unified diff convention: they are 1-based,
	// and a zero-length range reports the line immediately before it (0 when
	// the range is at the start of the text).
	Hunk struct {
		OldStart int
		OldLines int
		NewStart int
		NewLines int
		Lines    []Line
	}

	// Patch is the ordered set of hunks that transforms one text into another.
	Patch struct {
		// Label names the file in the --- and +++ headers.
		Label string

		// OldHash and NewHash are git blob hashes of the original and candidate
		// texts. Either may be empty for patches parsed from text without an
		// index line.
		OldHash string
		NewHash string

		Hunks []Hunk
	}

	// Stats summarizes the size of a patch.
	Stats struct {
		Additions int
		Deletions int
	}
)

const (
	OpContext Op = ' '
	OpAdd     Op = '+'
	OpDelete  Op = '-'
)

func (o Op) String() string {
	switch o {
	case OpContext:
		return "context"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("Op(%q)", byte(o))
	}
}

// Empty reports whether the patch has no hunks, i.e. the two texts it was
// computed from are identical.
func (p *Patch) Empty() bool {
	return p == nil || len(p.Hunks) == 0
}

// Stats counts the added and deleted lines across all hunks.
func (p *Patch) Stats() Stats {
	var s Stats
	if p == nil {
		return s
	}

	for _, h := range p.Hunks {
		for _, l := range h.Lines {
			switch l.Op {
			case OpAdd:
				s.Additions++
			case OpDelete:
				s.Deletions++
			}
		}
	}

	return s
}

// String renders the patch in unified diff format. A patch with no hunks
// renders as the empty string.
func (p *Patch) String() string {
	if p.Empty() {
		return ""
	}

	var b strings.Builder
	if p.OldHash != "" || p.NewHash != "" {
		fmt.Fprintf(&b, "index %s..%s\n", p.OldHash, p.NewHash)
	}

	fmt.Fprintf(&b, "--- a/%s\n", p.Label)
	fmt.Fprintf(&b, "+++ b/%s\n", p.Label)

	for _, h := range p.Hunks {
		b.WriteString(h.Header())
		b.WriteByte('\n')

		for _, l := range h.Lines {
			b.WriteByte(byte(l.Op))
			b.WriteString(l.Text)

			if !strings.HasSuffix(l.Text, "\n") {
				b.WriteByte('\n')
				b.WriteString(noNewlineMarker)
				b.WriteByte('\n')
			}
		}
	}

	return b.String()
}

// Header returns the "@@ -a,b +c,d @@" line for the hunk. Counts of one are
// omitted, as diff(1) does.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%s +%s @@", formatRange(h.OldStart, h.OldLines), formatRange(h.NewStart, h.NewLines))
}

// counts tallies the lines the hunk consumes from the old text and produces
// in the new one.
func (h Hunk) counts() (old, new int) {
	for _, l := range h.Lines {
		switch l.Op {
		case OpContext:
			old++
			new++
		case OpDelete:
			old++
		case OpAdd:
			new++
		}
	}

	return old, new
}

func formatRange(start, length int) string {
	if length == 1 {
		return fmt.Sprintf("%d", start)
	}

	return fmt.Sprintf("%d,%d", start, length)
}

// splitLines breaks text into lines that keep their "\n". Concatenating the
// result always reproduces text.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
