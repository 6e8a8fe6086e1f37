package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/consts"
	"gopkg.in/yaml.v3"
)

type (
	// Anthropic holds the settings for the schema and seed generator.
	Anthropic struct {
		// Model is the Anthropic model identifier
		Model string `yaml:"model,omitempty"`

		// MaxTokens caps the size of a single generated response
		MaxTokens int `yaml:"max_tokens,omitempty"`

		// Timeout bounds a single generation call, e.g. "90s" or "2m"
		Timeout time.Duration `yaml:"timeout,omitempty"`

		// APIKey is read from ANTHROPIC_API_KEY and never from the file
		APIKey string `yaml:"-"`
	}

	// Config represents the pgenie settings of a project.
	Config struct {
		// Anthropic configures the generator
		Anthropic Anthropic `yaml:"anthropic"`
	}
)

// Default returns the configuration used when no pgenie.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

// LoadConfig parses a pgenie configuration from the provided io.Reader.
// Missing values, and an empty document, fall back to the defaults.
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader(`
//	anthropic:
//	  model: claude-3-5-sonnet-20241022
//	  timeout: 90s
//	`))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Println(cfg.Anthropic.Timeout) // 1m30s
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to unmarshal pgenie config")
	}

	if cfg.Anthropic.MaxTokens < 0 {
		return nil, errors.Errorf("anthropic.max_tokens must be positive, got %d", cfg.Anthropic.MaxTokens)
	}

	if cfg.Anthropic.Timeout < 0 {
		return nil, errors.Errorf("anthropic.timeout must be positive, got %s", cfg.Anthropic.Timeout)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// Load builds the configuration for the project in dir. It reads dir/.env
// into the process environment (existing variables win), loads
// dir/pgenie.yaml when present and picks up the Anthropic API key from
// ANTHROPIC_API_KEY.
func Load(dir string) (*Config, error) {
	envPath := filepath.Join(dir, consts.EnvFile)
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrapf(err, "failed to load %s", envPath)
	}

	cfg := Default()

	configPath := filepath.Join(dir, consts.ConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		if cfg, err = LoadConfigFile(configPath); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to stat %s", configPath)
	}

	cfg.Anthropic.APIKey = os.Getenv(consts.APIKeyEnv)
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = consts.DefaultModel
	}

	if c.Anthropic.MaxTokens == 0 {
		c.Anthropic.MaxTokens = consts.DefaultMaxTokens
	}

	if c.Anthropic.Timeout == 0 {
		c.Anthropic.Timeout = consts.DefaultTimeout
	}
}
