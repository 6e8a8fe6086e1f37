package config_test

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/pseudomuto/pgenie/pkg/config"
	"github.com/pseudomuto/pgenie/pkg/consts"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/pgenie.yaml
var testConfigYAML string

func validateTestConfig(t *testing.T, cfg *Config) {
	t.Helper()

	require.Equal(t, "claude-3-7-sonnet-latest", cfg.Anthropic.Model)
	require.Equal(t, 4096, cfg.Anthropic.MaxTokens)
	require.Equal(t, 90*time.Second, cfg.Anthropic.Timeout)
}

func TestLoadConfig(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(testConfigYAML))
		require.NoError(t, err)
		validateTestConfig(t, cfg)
	})

	t.Run("defaults", func(t *testing.T) {
		for _, doc := range []string{"", "other_key: value", "anthropic:\n  timeout: 5m\n"} {
			cfg, err := LoadConfig(strings.NewReader(doc))
			require.NoError(t, err)
			require.Equal(t, consts.DefaultModel, cfg.Anthropic.Model)
			require.Equal(t, consts.DefaultMaxTokens, cfg.Anthropic.MaxTokens)
		}

		require.Equal(t, consts.DefaultTimeout, Default().Anthropic.Timeout)
	})

	t.Run("api key is never read from the file", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("anthropic:\n  apikey: nope\n  api_key: nope\n"))
		require.NoError(t, err)
		require.Empty(t, cfg.Anthropic.APIKey)
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]string{
			"invalid yaml":      "invalid: yaml: [",
			"bad duration":      "anthropic:\n  timeout: soon\n",
			"negative tokens":   "anthropic:\n  max_tokens: -1\n",
			"negative duration": "anthropic:\n  timeout: -1s\n",
		}

		for name, doc := range tests {
			t.Run(name, func(t *testing.T) {
				cfg, err := LoadConfig(strings.NewReader(doc))
				require.Error(t, err)
				require.Nil(t, cfg)
			})
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		cfg, err := LoadConfigFile("testdata/pgenie.yaml")
		require.NoError(t, err)
		validateTestConfig(t, cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadConfigFile("nonexistent.yaml")
		require.Error(t, err)
		require.Nil(t, cfg)
		require.Contains(t, err.Error(), "failed to open file")
	})
}

func TestLoad(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		t.Setenv(consts.APIKeyEnv, "")

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("reads config and dotenv", func(t *testing.T) {
		t.Setenv(consts.APIKeyEnv, "")
		require.NoError(t, os.Unsetenv(consts.APIKeyEnv))

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pgenie.yaml"), []byte(testConfigYAML), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ANTHROPIC_API_KEY=sk-from-dotenv\n"), 0o644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		validateTestConfig(t, cfg)
		require.Equal(t, "sk-from-dotenv", cfg.Anthropic.APIKey)
	})

	t.Run("environment wins over dotenv", func(t *testing.T) {
		t.Setenv(consts.APIKeyEnv, "sk-from-env")

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ANTHROPIC_API_KEY=sk-from-dotenv\n"), 0o644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		require.Equal(t, "sk-from-env", cfg.Anthropic.APIKey)
	})

	t.Run("invalid config", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pgenie.yaml"), []byte("anthropic: ["), 0o644))

		_, err := Load(dir)
		require.Error(t, err)
	})
}
