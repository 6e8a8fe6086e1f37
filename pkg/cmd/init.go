package cmd

import (
	"context"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/config"
	"github.com/pseudomuto/pgenie/pkg/consts"
	"github.com/pseudomuto/pgenie/pkg/generator"
	"github.com/pseudomuto/pgenie/pkg/neon"
	"github.com/pseudomuto/pgenie/pkg/project"
	"github.com/pseudomuto/pgenie/pkg/prompt"
	"github.com/pseudomuto/pgenie/pkg/shell"
	"github.com/pseudomuto/pgenie/pkg/ui"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

const verifyTimeout = 15 * time.Second

// verifyConnection is replaced in tests.
var verifyConnection = neon.Verify

type initParams struct {
	fx.In

	Config    *config.Config
	Generator generator.Factory
	Prompter  prompt.Prompter
	Runner    shell.Runner
}

// initCmd creates the init command.
//
// The init command provisions a Neon Postgres project for the JavaScript
// project in the current directory and scaffolds a Drizzle ORM database module
// into it. The schema and seed script are generated from a description of the
// app.
//
// Command flags:
//   - --package-manager, -p: npm, yarn, pnpm or bun (prompted when omitted)
//   - --module, -m: the database module directory (prompted when omitted)
//
// Example usage:
//
//	pgenie init
//	pgenie init --package-manager pnpm --module src/db
func initCmd(p initParams) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new project with Drizzle ORM and Neon",
		Description: `Set up a Neon Postgres database and a Drizzle ORM module for this project.

The init command:
- Installs drizzle-orm, postgres and drizzle-kit with your package manager
- Creates a Neon project and appends DATABASE_URL to .env
- Writes the drizzle-kit config and the database client into the module directory
- Registers the db:generate, db:migrate and db:seed scripts in package.json
- Generates schema.ts and seed.ts from a description of your app
- Generates and applies the first migration

Requires neonctl (authenticated with neonctl auth) and ANTHROPIC_API_KEY.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "package-manager",
				Aliases: []string{"p"},
				Usage:   "the package manager to use (npm, yarn, pnpm or bun)",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:    "module",
				Aliases: []string{"m"},
				Usage:   "the directory of the database module",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := ui.New(output(cmd))
			if err := runInit(ctx, p, out, cmd.String("package-manager"), cmd.String("module")); err != nil {
				return errors.Wrap(err, "failed to initialize project")
			}

			return nil
		},
	}
}

func runInit(ctx context.Context, p initParams, out *ui.Printer, pmFlag, modFlag string) error {
	proj, err := currentProject()
	if err != nil {
		return err
	}

	name, err := prompt.Ask(p.Prompter, prompt.Question{
		Label:    "What is your project name?",
		Default:  filepath.Base(proj.Root()),
		Validate: prompt.NonEmpty("Please provide a project name"),
	})
	if err != nil {
		return err
	}

	pm, err := choosePackageManager(p.Prompter, pmFlag)
	if err != nil {
		return err
	}

	nctl := neon.New(p.Runner)
	err = out.Spin(ctx, ui.Step{
		Title: "Checking Neon CLI installation...",
		Done:  "Neon CLI is installed and configured",
	}, nctl.Me)
	if err != nil {
		out.Warn("Please install Neon CLI and run neonctl auth to configure it.")
		return err
	}

	gen, err := p.Generator(p.Config.Anthropic)
	if err != nil {
		if errors.Is(err, generator.ErrMissingAPIKey) {
			out.Warn("Please set the %s environment variable to use the AI features.", consts.APIKeyEnv)
		}

		return err
	}

	mod, err := chooseModulePath(p.Prompter, modFlag)
	if err != nil {
		return err
	}

	err = out.Spin(ctx, ui.Step{Title: "Installing required packages...", Done: "Packages installed"}, func(ctx context.Context) error {
		if pm.NeedsTSX() {
			if err := pm.Install(ctx, p.Runner, true, "tsx"); err != nil {
				return err
			}
		}

		if err := pm.Install(ctx, p.Runner, false, "drizzle-orm", "postgres"); err != nil {
			return err
		}

		return pm.Install(ctx, p.Runner, true, "drizzle-kit")
	})
	if err != nil {
		return err
	}

	var url string
	err = out.Spin(ctx, ui.Step{Title: "Creating Neon project...", Done: "Neon project created"}, func(ctx context.Context) error {
		if err := nctl.CreateProject(ctx, name); err != nil {
			return err
		}

		conn, err := nctl.ConnectionString(ctx)
		if err != nil {
			return err
		}

		url = conn
		return proj.AppendEnv(consts.DatabaseURLEnv, url)
	})
	if err != nil {
		return err
	}

	err = out.Spin(ctx, ui.Step{Title: "Verifying database connection...", Done: "Database is reachable"}, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
		defer cancel()

		return verifyConnection(ctx, url)
	})
	if err != nil {
		out.Warn("Could not connect to the new database yet: %v", err)
	}

	if err := proj.Initialize(project.InitOptions{ModulePath: mod, PackageManager: pm}); err != nil {
		return err
	}

	description, err := prompt.Ask(p.Prompter, prompt.Question{
		Label:    "Describe your app and data model",
		Validate: prompt.NonEmpty("Please describe your app and data model"),
	})
	if err != nil {
		return err
	}

	var schema string
	err = out.Spin(ctx, ui.Step{Title: "Generating schema...", Done: "Schema generated successfully"}, func(ctx context.Context) error {
		generated, err := gen.GenerateSchema(ctx, description, "")
		if err != nil {
			return err
		}

		schema = generated
		return proj.WriteFile(project.ModuleFile(mod, consts.SchemaFile), schema)
	})
	if err != nil {
		return err
	}

	err = out.Spin(ctx, ui.Step{Title: "Generating seed script...", Done: "Seed script generated successfully"}, func(ctx context.Context) error {
		seed, err := gen.GenerateSeed(ctx, schema, description)
		if err != nil {
			return err
		}

		return proj.WriteFile(project.ModuleFile(mod, consts.SeedFile), seed)
	})
	if err != nil {
		return err
	}

	for _, step := range []struct {
		script string
		ui.Step
	}{
		{project.ScriptGenerate, ui.Step{Title: "Generating migrations...", Done: "Database schema generated"}},
		{project.ScriptMigrate, ui.Step{Title: "Running migrations...", Done: "Database migrated"}},
	} {
		err := out.Spin(ctx, step.Step, func(ctx context.Context) error {
			_, err := pm.RunScript(ctx, p.Runner, step.script)
			return err
		})
		if err != nil {
			return err
		}
	}

	out.Success("Project initialized successfully! You can seed your database by running the %s script", project.ScriptSeed)
	return nil
}

func choosePackageManager(p prompt.Prompter, flag string) (project.PackageManager, error) {
	if flag != "" {
		return project.ParsePackageManager(flag)
	}

	choice, err := prompt.Select(p, "Which package manager do you use?", project.PackageManagerNames(), string(project.NPM))
	if err != nil {
		return "", err
	}

	return project.PackageManager(choice), nil
}

func chooseModulePath(p prompt.Prompter, flag string) (string, error) {
	if flag != "" {
		return project.CleanModulePath(flag)
	}

	answer, err := prompt.Ask(p, prompt.Question{
		Label:   "Where would you like to store your database module?",
		Default: consts.DefaultModulePath,
		Validate: func(s string) error {
			if _, err := project.CleanModulePath(s); err != nil {
				return &prompt.ValidationError{Message: err.Error()}
			}

			return nil
		},
	})
	if err != nil {
		return "", err
	}

	return project.CleanModulePath(answer)
}
