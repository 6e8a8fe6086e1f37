// Package workflow implements the reviewed schema update: prompt for a change,
// generate a new schema, show the diff, and write the patched schema only
// after the user confirms.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/consts"
	"github.com/pseudomuto/pgenie/pkg/generator"
	"github.com/pseudomuto/pgenie/pkg/patch"
	"github.com/pseudomuto/pgenie/pkg/prompt"
	"github.com/pseudomuto/pgenie/pkg/ui"
)

// State is a step of the schema update.
type State int

const (
	Idle State = iota
	Prompting
	Generating
	Reviewing
	Confirmed
	Applying
	Persisted
	Declined
	Unchanged
	Failed
)

var stateNames = [...]string{
	Idle:       "idle",
	Prompting:  "prompting",
	Generating: "generating",
	Reviewing:  "reviewing",
	Confirmed:  "confirmed",
	Applying:   "applying",
	Persisted:  "persisted",
	Declined:   "declined",
	Unchanged:  "unchanged",
	Failed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

type (
	// Store holds the schema text being updated.
	Store interface {
		Read() (string, error)
		Write(content string) error
	}

	// SchemaUpdate runs one reviewed schema update. The zero value is not
	// usable; set Prompter, Generator, Store and Out.
	SchemaUpdate struct {
		Prompter  prompt.Prompter
		Generator generator.Generator
		Store     Store
		Out       *ui.Printer

		// Label names the file in the rendered diff. Defaults to schema.ts.
		Label string

		// OnTransition, when set, is called on every state change.
		OnTransition func(from, to State)

		state State
		apply func(string, *patch.Patch) (string, error)
	}
)

// Run walks the update from Idle to a terminal state and returns it.
//
// Persisted, Declined and Unchanged return a nil error. Any failure returns
// Failed with the cause, and the schema is left as it was: it is only ever
// replaced, atomically, with the reviewed patch applied to the text that was
// read, never with the raw generated candidate.
func (w *SchemaUpdate) Run(ctx context.Context) (State, error) {
	w.state = Idle

	w.transition(Prompting)
	request, err := prompt.Ask(w.Prompter, prompt.Question{
		Label:    "Describe the changes you want to make to your data model",
		Validate: prompt.NonEmpty("Please describe the changes you want to make"),
	})
	if err != nil {
		return w.fail(err)
	}

	w.transition(Generating)
	current, err := w.Store.Read()
	if err != nil {
		return w.fail(err)
	}

	var candidate string
	err = w.Out.Spin(ctx, ui.Step{Title: "Generating changes...", Done: "Changes generated ✨"}, func(ctx context.Context) error {
		schema, err := w.Generator.GenerateSchema(ctx, request, current)
		candidate = schema
		return err
	})
	if err != nil {
		return w.fail(err)
	}

	w.transition(Reviewing)
	p := patch.Compute(w.label(), current, candidate)

	stats := p.Stats()
	slog.Debug("Computed schema patch", "hunks", len(p.Hunks), "additions", stats.Additions, "deletions", stats.Deletions)

	if p.Empty() {
		w.Out.Note("No changes proposed; %s is already up to date.", w.label())
		w.transition(Unchanged)
		return Unchanged, nil
	}

	w.Out.Title("\nProposed changes:")
	w.Out.RenderPatch(p)

	ok, err := prompt.Confirm(w.Prompter, "Would you like to apply these changes?", false)
	if err != nil {
		return w.fail(err)
	}

	if !ok {
		w.transition(Declined)
		w.Out.Warn("Operation cancelled.")
		w.transition(Idle)
		return Declined, nil
	}

	w.transition(Confirmed)
	w.transition(Applying)
	err = w.Out.Spin(ctx, ui.Step{
		Title: "Updating schema...",
		Done:  "Schema updated ✨ Review the changes, generate migrations, and apply them.",
	}, func(context.Context) error {
		merged, err := w.applyFunc()(current, p)
		if err != nil {
			return errors.Wrap(err, "failed to merge changes")
		}

		return w.Store.Write(merged)
	})
	if err != nil {
		return w.fail(err)
	}

	w.transition(Persisted)
	return Persisted, nil
}

// State returns the current state.
func (w *SchemaUpdate) State() State { return w.state }

func (w *SchemaUpdate) transition(to State) {
	from := w.state
	w.state = to

	slog.Debug("Schema update", "from", from, "to", to)
	if w.OnTransition != nil {
		w.OnTransition(from, to)
	}
}

func (w *SchemaUpdate) fail(err error) (State, error) {
	w.transition(Failed)
	return Failed, err
}

func (w *SchemaUpdate) label() string {
	if w.Label == "" {
		return consts.SchemaFile
	}

	return w.Label
}

func (w *SchemaUpdate) applyFunc() func(string, *patch.Patch) (string, error) {
	if w.apply != nil {
		return w.apply
	}

	return patch.Apply
}
