// Package patch computes, renders, parses, and applies line-level unified
// diffs between two versions of a text file.
//
// A Patch is derived from an (original, candidate) pair by Compute and is
// never modified afterwards. Apply re-applies a Patch to a base text and only
// succeeds when the base is exactly the text the patch was computed against,
// which makes the round trip
//
//	Apply(original, Compute(label, original, candidate)) == candidate
//
// hold for every pair of strings, including empty texts and texts that only
// differ in a trailing newline.
//
// # Line model
//
// Texts are split into lines that keep their terminating "\n". A final line
// without a newline is its own line value, so adding or removing the final
// newline shows up as a changed line, rendered with the conventional
// "\ No newline at end of file" marker.
//
// # Integrity
//
// Compute records the git blob hash of both texts. String renders them as a
// git style "index <old>..<new>" line and Parse reads them back. Apply refuses
// a base whose hash differs from the recorded original, and verifies the
// merged text against the recorded candidate, returning a *ConflictError in
// either case.
//
// # Example
//
//	p := patch.Compute("schema.ts", current, proposed)
//	fmt.Print(p) // unified diff for review
//
//	merged, err := patch.Apply(current, p)
//	if errors.Is(err, patch.ErrConflict) {
//		// base drifted; nothing is written
//	}
package patch
