package consts

import (
	"os"
	"time"
)

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)
)

const (
	// ConfigFile is the optional per-project pgenie configuration file
	ConfigFile = "pgenie.yaml"

	// EnvFile is the dotenv file read at startup and appended to by init
	EnvFile = ".env"

	// ManifestFile is the JS project manifest holding the db:* scripts
	ManifestFile = "package.json"

	// APIKeyEnv is the environment variable holding the Anthropic API key
	APIKeyEnv = "ANTHROPIC_API_KEY"

	// DatabaseURLEnv is the environment variable written by init
	DatabaseURLEnv = "DATABASE_URL"

	// DefaultModulePath is where init places the database module
	DefaultModulePath = "app/lib/db"

	// SchemaFile is the Drizzle schema file name inside the module
	SchemaFile = "schema.ts"

	// SeedFile is the seed script file name inside the module
	SeedFile = "seed.ts"

	// DrizzleConfigFile is the drizzle-kit config file name inside the module
	DrizzleConfigFile = "config.ts"

	// ClientFile is the db client file name inside the module
	ClientFile = "index.ts"
)

const (
	// DefaultModel is the Anthropic model used for generation
	DefaultModel = "claude-3-5-sonnet-20241022"

	// DefaultMaxTokens caps the generated response size
	DefaultMaxTokens = 8192

	// DefaultTimeout bounds a single generation call
	DefaultTimeout = 2 * time.Minute
)
