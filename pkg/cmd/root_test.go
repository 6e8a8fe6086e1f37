package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/config"
	"github.com/pseudomuto/pgenie/pkg/consts"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

var testVersion = &Version{Version: "1.2.3", Commit: "abc123", Timestamp: "2026-01-02T03:04:05Z"}

func TestRootCommand_ProjectDirectory(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(consts.APIKeyEnv, "sk-ant-env")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, consts.ConfigFile),
		[]byte("anthropic:\n  model: claude-test\n  timeout: 30s\n"),
		consts.ModeFile,
	))

	var (
		seen config.Config
		pwd  string
	)

	cfg := config.Default()
	probe := &cli.Command{
		Name: "probe",
		Action: func(context.Context, *cli.Command) error {
			seen = *cfg

			var err error
			pwd, err = os.Getwd()
			return err
		},
	}

	var out bytes.Buffer
	app := NewApp(testVersion, cfg, nil, probe)
	app.Writer = &out

	require.NoError(t, Execute(context.Background(), app, []string{"pgenie", "--dir", dir, "probe"}))

	wantDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(pwd)
	require.NoError(t, err)
	require.Equal(t, wantDir, gotDir)

	require.Equal(t, "claude-test", seen.Anthropic.Model)
	require.Equal(t, 30*time.Second, seen.Anthropic.Timeout)
	require.Equal(t, consts.DefaultMaxTokens, seen.Anthropic.MaxTokens)
	require.Equal(t, "sk-ant-env", seen.Anthropic.APIKey)
}

func TestRootCommand_MissingDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	app := NewApp(testVersion, config.Default(), nil, &cli.Command{Name: "probe"})
	app.Writer = &out

	err := Execute(context.Background(), app, []string{"pgenie", "-d", "does/not/exist", "probe"})
	require.Error(t, err)
	require.Contains(t, out.String(), "✗ failed to change to project directory")
}

func TestRootCommand_ReportsErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	failing := &cli.Command{
		Name: "fail",
		Action: func(context.Context, *cli.Command) error {
			return errors.Wrap(errors.New("boom"), "failed to update schema")
		},
	}

	var out bytes.Buffer
	app := NewApp(testVersion, config.Default(), nil, failing)
	app.Writer = &out

	err := Execute(context.Background(), app, []string{"pgenie", "fail"})
	require.EqualError(t, err, "failed to update schema: boom")
	require.Equal(t, "✗ failed to update schema: boom\n", out.String())
}

func TestRootCommand_Verbose(t *testing.T) {
	t.Chdir(t.TempDir())

	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	app := NewApp(testVersion, config.Default(), level, &cli.Command{Name: "probe"})
	app.Writer = &bytes.Buffer{}

	require.NoError(t, Execute(context.Background(), app, []string{"pgenie", "--verbose", "probe"}))
	require.Equal(t, slog.LevelDebug, level.Level())
}

func TestRootCommand_Version(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(testVersion, config.Default(), nil)
	app.Writer = &out

	require.NoError(t, app.Run(context.Background(), []string{"pgenie", "--version"}))
	require.Contains(t, out.String(), "Version: 1.2.3\n")
	require.Contains(t, out.String(), "Commit: abc123\n")
}
