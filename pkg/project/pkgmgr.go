package project

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/shell"
)

// PackageManager is a JavaScript package manager CLI.
type PackageManager string

const (
	NPM  PackageManager = "npm"
	Yarn PackageManager = "yarn"
	PNPM PackageManager = "pnpm"
	Bun  PackageManager = "bun"
)

// PackageManagers lists the supported package managers in prompt order.
func PackageManagers() []PackageManager {
	return []PackageManager{NPM, Yarn, PNPM, Bun}
}

// PackageManagerNames is PackageManagers as strings.
func PackageManagerNames() []string {
	pms := PackageManagers()
	names := make([]string, len(pms))
	for i, pm := range pms {
		names[i] = string(pm)
	}

	return names
}

// ParsePackageManager returns the PackageManager named s.
func ParsePackageManager(s string) (PackageManager, error) {
	for _, pm := range PackageManagers() {
		if strings.EqualFold(string(pm), s) {
			return pm, nil
		}
	}

	return "", errors.Errorf("unsupported package manager %q", s)
}

// InstallArgs returns the command line that adds pkgs to the project, as
// development dependencies when dev is set.
//
//	NPM.InstallArgs(true, "drizzle-kit") // npm install -D drizzle-kit
//	Yarn.InstallArgs(false, "postgres")  // yarn add postgres
func (pm PackageManager) InstallArgs(dev bool, pkgs ...string) []string {
	verb := "add"
	if pm == NPM {
		verb = "install"
	}

	args := []string{string(pm), verb}
	if dev {
		args = append(args, "-D")
	}

	return append(args, pkgs...)
}

// RunScriptArgs returns the command line that runs a manifest script.
func (pm PackageManager) RunScriptArgs(script string) []string {
	return []string{string(pm), "run", script}
}

// SeedCommand is the db:seed script body for the seed file at path. Bun runs
// TypeScript natively; the others go through tsx.
func (pm PackageManager) SeedCommand(path string) string {
	if pm == Bun {
		return "bun run " + path
	}

	return "npx tsx " + path
}

// NeedsTSX reports whether seeding needs tsx installed as a dev dependency.
func (pm PackageManager) NeedsTSX() bool { return pm != Bun }

// Install adds pkgs to the project with r.
func (pm PackageManager) Install(ctx context.Context, r shell.Runner, dev bool, pkgs ...string) error {
	args := pm.InstallArgs(dev, pkgs...)
	if _, err := r.Run(ctx, args[0], args[1:]...); err != nil {
		return errors.Wrapf(err, "failed to install %s", strings.Join(pkgs, ", "))
	}

	return nil
}

// RunScript runs a manifest script with r and returns its output.
func (pm PackageManager) RunScript(ctx context.Context, r shell.Runner, script string) (string, error) {
	args := pm.RunScriptArgs(script)
	out, err := r.Run(ctx, args[0], args[1:]...)
	if err != nil {
		return "", errors.Wrapf(err, "failed to run %s", script)
	}

	return out, nil
}
