// Package shelltest provides a scripted shell.Runner for tests.
package shelltest

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/shell"
)

var errExit = errors.New("exit status 1")

type (
	// Recorder is a shell.Runner that records every invocation and answers from
	// a table of canned results keyed by the full command line.
	Recorder struct {
		mu      sync.Mutex
		results map[string]Result
		calls   []string

		// OnRun, when set, is called for every command before its result is
		// returned, e.g. to create files a real tool would have written.
		OnRun func(command string)
	}

	// Result is the canned outcome of a command.
	Result struct {
		Stdout string
		Err    error
	}
)

var _ shell.Runner = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{results: make(map[string]Result)}
}

// On sets the stdout returned for command, e.g. "neonctl connection-string".
func (r *Recorder) On(command, stdout string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[command] = Result{Stdout: stdout}
	return r
}

// Fail makes command fail with a *shell.ToolError carrying stderr.
func (r *Recorder) Fail(command, stderr string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[command] = Result{Err: &shell.ToolError{
		Command:  command,
		ExitCode: 1,
		Stderr:   stderr,
		Err:      errExit,
	}}

	return r
}

func (r *Recorder) Run(_ context.Context, name string, args ...string) (string, error) {
	command := strings.Join(append([]string{name}, args...), " ")

	r.mu.Lock()
	r.calls = append(r.calls, command)
	res := r.results[command]
	hook := r.OnRun
	r.mu.Unlock()

	if hook != nil {
		hook(command)
	}

	return res.Stdout, res.Err
}

// Calls returns every command run so far, in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.calls...)
}
