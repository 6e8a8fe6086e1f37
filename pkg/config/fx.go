package config

import "go.uber.org/fx"

// Module provides the *Config for the current directory. Without a
// pgenie.yaml the defaults are used, so every command can run before the
// project has been initialized.
var Module = fx.Module("config", fx.Provide(
	func() (*Config, error) {
		return Load(".")
	},
))
