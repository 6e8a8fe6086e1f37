package patch

import "github.com/go-git/go-git/v5/plumbing"

// Hash returns the git blob hash of text.
func Hash(text string) string {
	return plumbing.ComputeHash(plumbing.BlobObject, []byte(text)).String()
}
