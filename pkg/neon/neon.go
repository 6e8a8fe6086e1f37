// Package neon provisions Neon Postgres projects through the neonctl CLI and
// checks that the resulting database is reachable.
package neon

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/shell"
)

// Binary is the name of the Neon CLI executable.
const Binary = "neonctl"

// CLI wraps the neonctl commands used during project initialization.
type CLI struct {
	runner shell.Runner
}

// New returns a CLI that runs neonctl through r.
func New(r shell.Runner) *CLI {
	return &CLI{runner: r}
}

// Me checks that neonctl is installed and authenticated.
func (c *CLI) Me(ctx context.Context) error {
	if _, err := c.runner.Run(ctx, Binary, "me"); err != nil {
		return errors.Wrap(err, "neon CLI is not installed or not configured")
	}

	return nil
}

// CreateProject creates a Neon project named name and makes it the active
// context for subsequent neonctl calls.
func (c *CLI) CreateProject(ctx context.Context, name string) error {
	if _, err := c.runner.Run(ctx, Binary, "projects", "create", "--name", name, "--set-context"); err != nil {
		return errors.Wrapf(err, "failed to create neon project %q", name)
	}

	return nil
}

// ConnectionString returns the connection string of the active project.
func (c *CLI) ConnectionString(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, Binary, "connection-string")
	if err != nil {
		return "", errors.Wrap(err, "failed to get connection string")
	}

	url := strings.TrimSpace(out)
	if url == "" {
		return "", errors.New("neonctl returned an empty connection string")
	}

	return url, nil
}

// Verify connects to the database at url and pings it.
func Verify(ctx context.Context, url string) error {
	cfg, err := pgx.ParseConfig(url)
	if err != nil {
		return errors.Wrap(err, "invalid connection string")
	}

	slog.Debug("Verifying database connection", "host", cfg.Host, "database", cfg.Database)

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	defer func() { _ = conn.Close(ctx) }()

	if err := conn.Ping(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}

	return nil
}
