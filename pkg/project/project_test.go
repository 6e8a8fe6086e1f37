package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/project"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

const filePerms = 0o644

// newProject creates a project in a temp dir with the given package.json.
func newProject(t *testing.T, manifest string) (*project.Project, string) {
	t.Helper()
	dir := t.TempDir()

	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), filePerms))
	}

	return project.New(project.ProjectParams{Dir: dir}), dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestProjectInitialize(t *testing.T) {
	t.Run("creates module files and scripts", func(t *testing.T) {
		proj, dir := newProject(t, `{"name": "shop", "private": true}`)

		err := proj.Initialize(project.InitOptions{ModulePath: "app/lib/db", PackageManager: project.NPM})
		require.NoError(t, err)

		require.DirExists(t, filepath.Join(dir, "app", "lib", "db"))
		golden.Assert(t, readFile(t, filepath.Join(dir, "app", "lib", "db", "config.ts")), "config.ts.golden")
		golden.Assert(t, readFile(t, filepath.Join(dir, "app", "lib", "db", "index.ts")), "index.ts.golden")
		golden.Assert(t, readFile(t, filepath.Join(dir, "package.json")), "package.json.golden")

		mod, err := proj.ModulePath()
		require.NoError(t, err)
		require.Equal(t, "app/lib/db", mod)
	})

	t.Run("keeps existing module files", func(t *testing.T) {
		proj, dir := newProject(t, `{}`)

		configPath := filepath.Join(dir, "db", "config.ts")
		require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))
		require.NoError(t, os.WriteFile(configPath, []byte("// mine\n"), filePerms))

		require.NoError(t, proj.Initialize(project.InitOptions{ModulePath: "./db/", PackageManager: project.Bun}))
		require.Equal(t, "// mine\n", readFile(t, configPath))
		require.FileExists(t, filepath.Join(dir, "db", "index.ts"))
	})

	t.Run("rejects module paths outside the project", func(t *testing.T) {
		for _, mod := range []string{"", ".", "..", "../db", "/abs/db"} {
			proj, _ := newProject(t, `{}`)
			require.Error(t, proj.Initialize(project.InitOptions{ModulePath: mod}), mod)
		}
	})

	t.Run("missing manifest", func(t *testing.T) {
		proj, _ := newProject(t, "")

		err := proj.Initialize(project.InitOptions{ModulePath: "db", PackageManager: project.NPM})
		require.True(t, errors.Is(err, project.ErrFilesystem))
	})

	t.Run("missing project directory", func(t *testing.T) {
		proj := project.New(project.ProjectParams{Dir: filepath.Join(t.TempDir(), "nope")})

		err := proj.Initialize(project.InitOptions{ModulePath: "db"})
		require.True(t, errors.Is(err, project.ErrFilesystem))
	})
}

func TestCleanModulePath(t *testing.T) {
	tests := map[string]string{
		"app/lib/db":   "app/lib/db",
		"./src/db/":    "src/db",
		"db/../lib/db": "lib/db",
	}

	for in, want := range tests {
		got, err := project.CleanModulePath(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	_, err := project.CleanModulePath("db/../../x")
	require.Error(t, err)
}

func TestProjectWriteFile(t *testing.T) {
	proj, dir := newProject(t, "")

	require.NoError(t, proj.WriteFile("app/lib/db/seed.ts", "seed v1\n"))
	require.NoError(t, proj.WriteFile("app/lib/db/seed.ts", "seed v2\n"))
	require.Equal(t, "seed v2\n", readFile(t, filepath.Join(dir, "app", "lib", "db", "seed.ts")))

	entries, err := os.ReadDir(filepath.Join(dir, "app", "lib", "db"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestProjectAppendEnv(t *testing.T) {
	proj, dir := newProject(t, "")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(envPath, []byte("ANTHROPIC_API_KEY=sk-test"), filePerms))
	require.NoError(t, proj.AppendEnv("DATABASE_URL", "postgresql://u:p@ep-1.neon.tech/neondb?sslmode=require"))

	env, err := godotenv.Read(envPath)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"ANTHROPIC_API_KEY": "sk-test",
		"DATABASE_URL":      "postgresql://u:p@ep-1.neon.tech/neondb?sslmode=require",
	}, env)
}

func TestProjectAppendEnvCreatesFile(t *testing.T) {
	proj, dir := newProject(t, "")

	require.NoError(t, proj.AppendEnv("DATABASE_URL", "postgres://localhost/db"))
	require.Equal(t, "DATABASE_URL=\"postgres://localhost/db\"\n", readFile(t, filepath.Join(dir, ".env")))
}
