package cmd

import (
	"os"

	"github.com/pseudomuto/pgenie/pkg/prompt"
	"github.com/pseudomuto/pgenie/pkg/shell"
	"go.uber.org/fx"
)

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(initCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(generate, fx.ResultTags(`group:"commands"`)),
		func() prompt.Prompter { return prompt.NewTerminal(os.Stdout) },
		func() shell.Runner { return &shell.Exec{} },
	),
	fx.Invoke(Run),
)
