package project

import (
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
)

// UncommittedChanges reports whether the file at path (absolute, or relative
// to the project root) has changes that are not committed, including being
// untracked. Outside a git repository it reports false.
func (p *Project) UncommittedChanges(path string) (bool, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to resolve %s", path)
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return false, nil
	}

	if err != nil {
		return false, errors.Wrap(err, "failed to open git repository")
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, errors.Wrap(err, "failed to open git worktree")
	}

	rel, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil {
		return false, errors.Wrapf(err, "%s is outside the repository", abs)
	}

	status, err := wt.Status()
	if err != nil {
		return false, errors.Wrap(err, "failed to read git status")
	}

	// Status.File would insert an entry for clean files, so index directly.
	fs, ok := status[filepath.ToSlash(rel)]
	if !ok {
		return false, nil
	}

	return fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified, nil
}
