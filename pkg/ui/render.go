package ui

import (
	"fmt"
	"strings"

	"github.com/pseudomuto/pgenie/pkg/patch"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const noNewline = `\ No newline at end of file`

// RenderPatch writes p for review. Added lines are green, removed lines gray
// and hunk headers cyan. When a removed line is directly replaced by an added
// one, the changed words within the pair are emphasized.
//
// Without color the output is identical to p.String().
func (p *Printer) RenderPatch(pt *patch.Patch) {
	if pt.Empty() {
		return
	}

	s := p.styles
	if pt.OldHash != "" || pt.NewHash != "" {
		fmt.Fprintln(p.w, p.paint(s.faint, fmt.Sprintf("index %s..%s", pt.OldHash, pt.NewHash)))
	}

	fmt.Fprintln(p.w, p.paint(s.file, "--- a/"+pt.Label))
	fmt.Fprintln(p.w, p.paint(s.file, "+++ b/"+pt.Label))

	for _, h := range pt.Hunks {
		fmt.Fprintln(p.w, p.paint(s.hunk, h.Header()))

		lines := h.Lines
		for i := 0; i < len(lines); {
			if lines[i].Op != patch.OpDelete {
				p.renderLine(lines[i], nil)
				i++
				continue
			}

			// A run of deletions followed by a run of additions is a replacement;
			// pair them up positionally for word-level emphasis.
			dels := i
			for i < len(lines) && lines[i].Op == patch.OpDelete {
				i++
			}

			adds := i
			for i < len(lines) && lines[i].Op == patch.OpAdd {
				i++
			}

			nDel, nAdd := adds-dels, i-adds
			for k := range nDel {
				var pair *patch.Line
				if k < nAdd {
					pair = &lines[adds+k]
				}

				p.renderLine(lines[dels+k], pair)
			}

			for k := range nAdd {
				var pair *patch.Line
				if k < nDel {
					pair = &lines[dels+k]
				}

				p.renderLine(lines[adds+k], pair)
			}
		}
	}
}

// renderLine writes a single hunk line. pair, when set, is the counterpart of
// a replaced line and drives the intra-line emphasis.
func (p *Printer) renderLine(l patch.Line, pair *patch.Line) {
	text, hasNewline := strings.CutSuffix(l.Text, "\n")

	var body string
	switch l.Op {
	case patch.OpAdd:
		body = p.paint(p.styles.add, "+") + p.emphasize(l, pair, text)
	case patch.OpDelete:
		body = p.paint(p.styles.del, "-") + p.emphasize(l, pair, text)
	default:
		body = " " + p.paint(p.styles.context, text)
	}

	fmt.Fprintln(p.w, body)
	if !hasNewline {
		fmt.Fprintln(p.w, p.paint(p.styles.faint, noNewline))
	}
}

func (p *Printer) emphasize(l patch.Line, pair *patch.Line, text string) string {
	plain, emph := p.styles.add, p.styles.addEmph
	if l.Op == patch.OpDelete {
		plain, emph = p.styles.del, p.styles.delEmph
	}

	if !p.color || pair == nil {
		return p.paint(plain, text)
	}

	other := strings.TrimSuffix(pair.Text, "\n")
	from, to := other, text
	if l.Op == patch.OpDelete {
		from, to = text, other
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))

	var b strings.Builder
	for _, d := range diffs {
		switch {
		case d.Type == diffmatchpatch.DiffEqual:
			b.WriteString(p.paint(plain, d.Text))
		case d.Type == diffmatchpatch.DiffInsert && l.Op == patch.OpAdd,
			d.Type == diffmatchpatch.DiffDelete && l.Op == patch.OpDelete:
			b.WriteString(p.paint(emph, d.Text))
		}
	}

	return b.String()
}
