// Package testutil provides fixtures and fakes for testing the pgenie
// commands without a terminal, the network or external tools.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pseudomuto/pgenie/pkg/config"
	"github.com/pseudomuto/pgenie/pkg/consts"
	"github.com/pseudomuto/pgenie/pkg/project"
	"github.com/pseudomuto/pgenie/pkg/prompt"
	"github.com/stretchr/testify/require"
)

// Manifest is the package.json every fixture starts with.
const Manifest = `{
  "name": "fixture",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "dev": "next dev"
  }
}
`

// ProjectFixture represents a JavaScript project in a temporary directory.
type ProjectFixture struct {
	Dir     string
	Config  *config.Config
	Project *project.Project

	// Module is the database module path once WithModule has run.
	Module string

	t *testing.T
}

// TestProject creates an isolated temp directory holding a package.json and
// makes it the working directory until the test ends. The configuration has
// an API key set.
func TestProject(t *testing.T) *ProjectFixture {
	t.Helper()

	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, consts.ManifestFile), []byte(Manifest), consts.ModeFile))
	t.Chdir(tmpDir)

	cfg := config.Default()
	cfg.Anthropic.APIKey = "sk-ant-test"

	return &ProjectFixture{
		Dir:     tmpDir,
		Config:  cfg,
		Project: project.New(project.ProjectParams{Dir: tmpDir}),
		t:       t,
	}
}

// WithModule scaffolds the database module at mod, as pgenie init would.
func (p *ProjectFixture) WithModule(mod string, pm project.PackageManager) *ProjectFixture {
	p.t.Helper()

	err := p.Project.Initialize(project.InitOptions{ModulePath: mod, PackageManager: pm})
	require.NoError(p.t, err, "Failed to initialize test project")

	p.Module = mod
	return p
}

// WithSchema sets the content of the module's schema.ts.
func (p *ProjectFixture) WithSchema(schema string) *ProjectFixture {
	p.t.Helper()
	require.NotEmpty(p.t, p.Module, "WithSchema requires WithModule")

	err := p.Project.WriteFile(project.ModuleFile(p.Module, consts.SchemaFile), schema)
	require.NoError(p.t, err, "Failed to write schema")

	return p
}

// Path returns the absolute path of the project relative, slash separated
// name.
func (p *ProjectFixture) Path(name string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(name))
}

// ReadFile returns the content of the project relative file name.
func (p *ProjectFixture) ReadFile(name string) string {
	p.t.Helper()

	data, err := os.ReadFile(p.Path(name))
	require.NoError(p.t, err, "Failed to read %s", name)

	return string(data)
}

// Schema returns the content of the module's schema.ts.
func (p *ProjectFixture) Schema() string {
	p.t.Helper()
	return p.ReadFile(project.ModuleFile(p.Module, consts.SchemaFile))
}

// Answers returns a prompter that answers each question with the next line.
// Running out of answers aborts the prompt.
func Answers(answers ...string) *prompt.Scripted {
	input := strings.Join(answers, "\n")
	if len(answers) > 0 {
		input += "\n"
	}

	return prompt.NewScripted(strings.NewReader(input), &strings.Builder{})
}
