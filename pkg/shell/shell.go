// Package shell runs the external command line tools pgenie drives, such as
// neonctl and the project's JavaScript package manager.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrTool is matched by every error a Runner returns for a failed tool.
var ErrTool = errors.New("external tool failed")

type (
	// Runner runs a program to completion and returns its standard output.
	Runner interface {
		Run(ctx context.Context, name string, args ...string) (string, error)
	}

	// Exec is a Runner backed by os/exec.
	Exec struct {
		// Dir is the working directory for commands. Empty means the current
		// directory of the process.
		Dir string

		// Env, when set, is appended to the process environment.
		Env []string
	}

	// ToolError describes a tool that could not be started or exited with a
	// non-zero status.
	ToolError struct {
		Command  string
		ExitCode int
		Stderr   string
		Err      error
	}
)

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}

	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTool) true for every *ToolError.
func (e *ToolError) Is(target error) bool { return target == ErrTool }

// NotFound reports whether the tool binary could not be located.
func (e *ToolError) NotFound() bool { return errors.Is(e.Err, exec.ErrNotFound) }

// Run executes name with args and returns trimmed stdout. Output on stderr is
// included in the returned *ToolError when the command fails.
func (x *Exec) Run(ctx context.Context, name string, args ...string) (string, error) {
	command := strings.Join(append([]string{name}, args...), " ")
	logger := slog.With("cmd", command)

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = x.Dir
	if len(x.Env) > 0 {
		c.Env = append(c.Environ(), x.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	logger.Debug("Running command", "dir", x.Dir)

	err := c.Run()
	logger.Debug("Command finished", "elapsed", time.Since(start), "err", err)

	if err != nil {
		te := &ToolError{
			Command:  command,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			te.ExitCode = exitErr.ExitCode()
		}

		return "", te
	}

	return strings.TrimSpace(stdout.String()), nil
}
