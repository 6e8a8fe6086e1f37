package patch

import "github.com/pmezard/go-difflib/difflib"

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

// Compute returns the patch that turns original into candidate. The result is
// deterministic: the same inputs always produce the same hunks. When the two
// texts are identical the patch has no hunks.
//
// Example:
//
//	p := patch.Compute("schema.ts", "a\nb\n", "a\nc\n")
//	fmt.Print(p)
//	// index ...
//	// --- a/schema.ts
//	// +++ b/schema.ts
//	// @@ -1,2 +1,2 @@
//	//  a
//	// -b
//	// +c
func Compute(label, original, candidate string) *Patch {
	p := &Patch{
		Label:   label,
		OldHash: Hash(original),
		NewHash: Hash(candidate),
	}

	if original == candidate {
		return p
	}

	a, b := splitLines(original), splitLines(candidate)
	m := difflib.NewMatcher(a, b)

	for _, group := range m.GetGroupedOpCodes(contextLines) {
		first, last := group[0], group[len(group)-1]

		h := Hunk{
			OldStart: rangeStart(first.I1, last.I2),
			OldLines: last.I2 - first.I1,
			NewStart: rangeStart(first.J1, last.J2),
			NewLines: last.J2 - first.J1,
		}

		for _, op := range group {
			switch op.Tag {
			case 'e':
				h.Lines = appendLines(h.Lines, OpContext, a[op.I1:op.I2])
			case 'r':
				h.Lines = appendLines(h.Lines, OpDelete, a[op.I1:op.I2])
				h.Lines = appendLines(h.Lines, OpAdd, b[op.J1:op.J2])
			case 'd':
				h.Lines = appendLines(h.Lines, OpDelete, a[op.I1:op.I2])
			case 'i':
				h.Lines = appendLines(h.Lines, OpAdd, b[op.J1:op.J2])
			}
		}

		p.Hunks = append(p.Hunks, h)
	}

	return p
}

// rangeStart converts a 0-based half-open index range into the 1-based start
// used in hunk headers.
func rangeStart(from, to int) int {
	if to == from {
		return from
	}

	return from + 1
}

func appendLines(dst []Line, op Op, texts []string) []Line {
	for _, t := range texts {
		dst = append(dst, Line{Op: op, Text: t})
	}

	return dst
}
