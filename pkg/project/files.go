package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/consts"
)

// ErrFilesystem is matched by every error caused by a missing, unreadable or
// unwritable project file.
var ErrFilesystem = errors.New("filesystem error")

// FileError records a failed file operation on a project path.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFilesystem) true for every *FileError.
func (e *FileError) Is(target error) bool { return target == ErrFilesystem }

func fsError(op, path string, err error) error {
	return &FileError{Op: op, Path: path, Err: err}
}

// writeFileAtomic replaces path with data by writing a temporary file in the
// same directory and renaming it over the target. Readers never observe a
// partially written file. An existing file keeps its permissions.
func writeFileAtomic(path string, data []byte) error {
	mode := consts.ModeFile
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fsError("create temp file for", path, err)
	}

	// Cleanup is a no-op once the rename succeeds.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fsError("write", path, err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fsError("sync", path, err)
	}

	if err := tmp.Close(); err != nil {
		return fsError("close", path, err)
	}

	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fsError("chmod", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fsError("replace", path, err)
	}

	return nil
}
