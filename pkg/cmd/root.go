package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/config"
	"github.com/pseudomuto/pgenie/pkg/project"
	"github.com/pseudomuto/pgenie/pkg/ui"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Config     *config.Config
		Ctx        context.Context
		Level      *slog.LevelVar
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers the pgenie CLI application to run once the fx app starts.
// When the command completes the app is shut down with exit code 0, or 1 if
// the command failed.
//
// Global Flags:
//   - --dir, -d: Project directory (defaults to current directory)
//   - --verbose: Enable debug logging
//
// The project directory becomes the working directory before any command
// runs, and the configuration (pgenie.yaml and .env) is reloaded from it.
//
// Example usage:
//
//	pgenie init
//	pgenie --dir ./web generate
func Run(p Params) {
	app := NewApp(p.Version, p.Config, p.Level, p.Commands...)

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := Execute(p.Ctx, app, p.Args); err != nil {
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

// NewApp builds the root command. cfg is updated in place once the project
// directory is known, so commands holding the pointer see the project's
// settings.
func NewApp(v *Version, cfg *config.Config, level *slog.LevelVar, commands ...*cli.Command) *cli.Command {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Root().Writer, "Version:", v.Version)
		fmt.Fprintln(cmd.Root().Writer, "Commit:", v.Commit)
		fmt.Fprintln(cmd.Root().Writer, "Date:", v.Timestamp)
	}

	return &cli.Command{
		Name:  "pgenie",
		Usage: "Generate and evolve Drizzle ORM schemas for Neon Postgres",
		Description: `pgenie sets up a Neon Postgres database with a Drizzle ORM schema generated
from a description of your app, and updates that schema from plain-language
change requests. Every change is shown as a diff and only written once you
approve it.`,
		Version: v.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "the project directory",
				Value:       ".",
				DefaultText: "Current directory",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") && level != nil {
				level.Set(slog.LevelDebug)
			}

			if err := os.Chdir(cmd.String("dir")); err != nil {
				return ctx, errors.Wrap(err, "failed to change to project directory")
			}

			loaded, err := config.Load(".")
			if err != nil {
				return ctx, err
			}

			*cfg = *loaded
			slog.Debug("Loaded configuration", "model", cfg.Anthropic.Model, "timeout", cfg.Anthropic.Timeout)

			return ctx, nil
		},
		Commands: commands,
	}
}

// Execute runs app and reports a failure on the app's writer.
func Execute(ctx context.Context, app *cli.Command, args []string) error {
	err := app.Run(ctx, args)
	if err != nil {
		w := app.Writer
		if w == nil {
			w = os.Stdout
		}

		ui.New(w).Error("%s", err)
		slog.Debug("Command failed", "err", fmt.Sprintf("%+v", err))
	}

	return err
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

// currentProject returns the project rooted at the working directory.
func currentProject() (*project.Project, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current working directory")
	}

	return project.New(project.ProjectParams{Dir: pwd}), nil
}
