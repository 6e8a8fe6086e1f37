package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformed is matched by every error Parse returns.
var ErrMalformed = errors.New("malformed patch")

var (
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
	indexRe      = regexp.MustCompile(`^index ([0-9a-f]*)\.\.([0-9a-f]*)`)
)

// Parse reads a patch in the format produced by Patch.String.
//
// Hunk bodies are read by the counts in their headers, so content lines that
// themselves begin with "---", "+++" or "@@" are kept as content. A completely
// empty body line is read as an empty context line, which is how some editors
// save patches with trailing whitespace stripped.
func Parse(text string) (*Patch, error) {
	p := &Patch{}
	if text == "" {
		return p, nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	i := 0
	for ; i < len(lines) && !strings.HasPrefix(lines[i], "@@"); i++ {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, "index "):
			m := indexRe.FindStringSubmatch(line)
			if m == nil {
				return nil, malformed(i, "invalid index line %q", line)
			}

			p.OldHash, p.NewHash = m[1], m[2]
		case strings.HasPrefix(line, "--- "):
			p.Label = trimLabel(line[4:], "a/")
		case strings.HasPrefix(line, "+++ "):
			if p.Label == "" {
				p.Label = trimLabel(line[4:], "b/")
			}
		case strings.HasPrefix(line, "diff "), line == "":
		default:
			return nil, malformed(i, "unexpected line %q before first hunk", line)
		}
	}

	for i < len(lines) {
		if lines[i] == "" {
			i++
			continue
		}

		h, next, err := parseHunk(lines, i)
		if err != nil {
			return nil, err
		}

		p.Hunks = append(p.Hunks, h)
		i = next
	}

	return p, nil
}

// parseHunk reads the hunk whose header is lines[at] and returns it together
// with the index of the first line after it.
func parseHunk(lines []string, at int) (Hunk, int, error) {
	m := hunkHeaderRe.FindStringSubmatch(lines[at])
	if m == nil {
		return Hunk{}, 0, malformed(at, "expected hunk header, found %q", lines[at])
	}

	h := Hunk{
		OldStart: atoi(m[1], 0),
		OldLines: atoi(m[2], 1),
		NewStart: atoi(m[3], 0),
		NewLines: atoi(m[4], 1),
	}

	oldLeft, newLeft := h.OldLines, h.NewLines
	i := at + 1

	for oldLeft > 0 || newLeft > 0 {
		if i >= len(lines) {
			return Hunk{}, 0, malformed(i, "hunk %s ends early", h.Header())
		}

		raw := lines[i]
		line := Line{Op: OpContext, Text: "\n"}
		if raw != "" {
			line = Line{Op: Op(raw[0]), Text: raw[1:] + "\n"}
		}

		switch line.Op {
		case OpContext:
			oldLeft--
			newLeft--
		case OpDelete:
			oldLeft--
		case OpAdd:
			newLeft--
		default:
			return Hunk{}, 0, malformed(i, "invalid line prefix %q", raw[:1])
		}

		if oldLeft < 0 || newLeft < 0 {
			return Hunk{}, 0, malformed(i, "hunk %s has more lines than its header", h.Header())
		}

		i++
		if i < len(lines) && strings.HasPrefix(lines[i], `\`) {
			line.Text = strings.TrimSuffix(line.Text, "\n")
			i++
		}

		h.Lines = append(h.Lines, line)
	}

	return h, i, nil
}

func trimLabel(s, prefix string) string {
	if tab := strings.IndexByte(s, '\t'); tab >= 0 {
		s = s[:tab]
	}

	return strings.TrimPrefix(s, prefix)
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}

	return n
}

func malformed(line int, format string, args ...any) error {
	return errors.Wrapf(ErrMalformed, "line %d: %s", line+1, fmt.Sprintf(format, args...))
}
