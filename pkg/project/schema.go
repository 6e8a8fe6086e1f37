package project

import (
	"os"
	"path/filepath"

	"github.com/pseudomuto/pgenie/pkg/consts"
)

// SchemaStore reads and writes the Drizzle schema file of a project.
type SchemaStore struct {
	path string
}

// Schema returns the store for <module>/schema.ts, resolving the module path
// from the manifest.
//
// Example:
//
//	store, err := proj.Schema()
//	if err != nil {
//		return err // no manifest, or pgenie init never ran
//	}
//
//	current, err := store.Read()
func (p *Project) Schema() (*SchemaStore, error) {
	mod, err := p.ModulePath()
	if err != nil {
		return nil, err
	}

	return NewSchemaStore(filepath.Join(p.root, filepath.FromSlash(mod), consts.SchemaFile)), nil
}

// NewSchemaStore returns a store for the schema file at path.
func NewSchemaStore(path string) *SchemaStore {
	return &SchemaStore{path: path}
}

// Path returns the location of the schema file.
func (s *SchemaStore) Path() string { return s.path }

// Read returns the current schema text.
func (s *SchemaStore) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fsError("read", s.path, err)
	}

	return string(data), nil
}

// Write atomically replaces the schema with content.
func (s *SchemaStore) Write(content string) error {
	return writeFileAtomic(s.path, []byte(content))
}
