package cmd

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/config"
	"github.com/pseudomuto/pgenie/pkg/consts"
	"github.com/pseudomuto/pgenie/pkg/generator"
	"github.com/pseudomuto/pgenie/pkg/prompt"
	"github.com/pseudomuto/pgenie/pkg/ui"
	"github.com/pseudomuto/pgenie/pkg/workflow"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type generateParams struct {
	fx.In

	Config    *config.Config
	Generator generator.Factory
	Prompter  prompt.Prompter
}

// generate creates the generate command.
//
// The generate command asks for a change to the data model, generates an
// updated schema and shows the difference to the current schema.ts as a
// unified diff. The schema is only rewritten after the change is approved.
//
// Example usage:
//
//	pgenie generate
//	pgenie --dir ./web generate --verbose
func generate(p generateParams) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate or update the schema from a description of the change",
		Description: `Describe a change to your data model and review the generated update to
schema.ts before it is applied.

Declining leaves schema.ts untouched. Approved changes are written to
schema.ts only; generate and apply the migration afterwards with the
db:generate and db:migrate scripts.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := ui.New(output(cmd))
			if err := runGenerate(ctx, p, out); err != nil {
				return errors.Wrap(err, "failed to update schema")
			}

			return nil
		},
	}
}

func runGenerate(ctx context.Context, p generateParams, out *ui.Printer) error {
	gen, err := p.Generator(p.Config.Anthropic)
	if err != nil {
		if errors.Is(err, generator.ErrMissingAPIKey) {
			out.Warn("Please set the %s environment variable to use the AI features.", consts.APIKeyEnv)
		}

		return err
	}

	proj, err := currentProject()
	if err != nil {
		return err
	}

	store, err := proj.Schema()
	if err != nil {
		return err
	}

	dirty, err := proj.UncommittedChanges(store.Path())
	if err != nil {
		slog.Debug("Could not check for uncommitted changes", "path", store.Path(), "err", err)
	} else if dirty {
		out.Warn("%s has uncommitted changes. Consider committing them before applying new ones.", consts.SchemaFile)
	}

	update := &workflow.SchemaUpdate{
		Prompter:  p.Prompter,
		Generator: gen,
		Store:     store,
		Out:       out,
	}

	state, err := update.Run(ctx)
	slog.Debug("Schema update finished", "state", state)

	return err
}
