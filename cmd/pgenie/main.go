package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pseudomuto/pgenie/pkg/cmd"
	"github.com/pseudomuto/pgenie/pkg/config"
	"github.com/pseudomuto/pgenie/pkg/generator"
	"github.com/pseudomuto/pgenie/pkg/ui"
	"go.uber.org/fx"
)

const sessionTimeout = time.Hour

// NB: These are set by GoReleaser during a build.
var (
	version = "dev"
	commit  string
	date    string
)

func main() {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !ui.IsTerminal(os.Stderr),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The command runs inside the start hook, so the start timeout has to
	// cover an interactive session.
	fx.New(
		fx.NopLogger,
		fx.StartTimeout(sessionTimeout),
		fx.Supply(
			os.Args,
			level,
			&cmd.Version{
				Version:   version,
				Commit:    commit,
				Timestamp: date,
			},
		),
		fx.Provide(func() context.Context { return ctx }),
		config.Module,
		generator.Module,
		cmd.Module,
	).Run()
}
