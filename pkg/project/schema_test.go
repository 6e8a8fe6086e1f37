package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/project"
	"github.com/stretchr/testify/require"
)

func TestSchemaStore(t *testing.T) {
	proj, dir := newProject(t, `{"scripts": {"db:generate": "drizzle-kit generate --config=app/lib/db/config.ts"}}`)

	store, err := proj.Schema()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "app", "lib", "db", "schema.ts"), store.Path())

	t.Run("missing schema file", func(t *testing.T) {
		_, err := store.Read()
		require.True(t, errors.Is(err, project.ErrFilesystem))

		var fe *project.FileError
		require.True(t, errors.As(err, &fe))
		require.True(t, os.IsNotExist(fe.Err))
	})

	t.Run("write then read", func(t *testing.T) {
		require.NoError(t, proj.WriteFile("app/lib/db/schema.ts", "v1\n"))
		require.NoError(t, os.Chmod(store.Path(), 0o600))

		require.NoError(t, store.Write("v2\n"))

		got, err := store.Read()
		require.NoError(t, err)
		require.Equal(t, "v2\n", got)

		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "permissions are preserved")
	})
}

func TestSchemaWithoutManifest(t *testing.T) {
	proj, _ := newProject(t, "")

	_, err := proj.Schema()
	require.True(t, errors.Is(err, project.ErrFilesystem))
}
