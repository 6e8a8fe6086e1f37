package project

import (
	"bytes"
	_ "embed"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"testing/fstest"
	"text/template"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/consts"
)

var (
	//go:embed embed/config.ts.tmpl
	drizzleConfigTemplate string

	//go:embed embed/index.ts
	clientSource []byte

	drizzleConfig = template.Must(template.New(consts.DrizzleConfigFile).Parse(drizzleConfigTemplate))
)

type (
	// ProjectParams configures a Project.
	ProjectParams struct {
		// Dir is the root of the JavaScript project, where package.json lives.
		Dir string
	}

	// InitOptions contains options for project initialization
	InitOptions struct {
		// ModulePath is the database module directory relative to the project
		// root, e.g. app/lib/db.
		ModulePath string

		// PackageManager decides how the generated db:seed script runs.
		PackageManager PackageManager
	}

	// Project is a JavaScript project that pgenie scaffolds a Drizzle database
	// module into.
	Project struct {
		root     string
		manifest string
	}
)

// New creates a Project rooted at params.Dir.
//
// Example:
//
//	proj := project.New(project.ProjectParams{Dir: "."})
//	store, err := proj.Schema()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	current, err := store.Read()
func New(params ProjectParams) *Project {
	return &Project{root: params.Dir, manifest: consts.ManifestFile}
}

// Root returns the project directory.
func (p *Project) Root() string { return p.root }

// Initialize scaffolds the database module: it creates the module directory,
// writes the drizzle-kit config and the db client, and registers the db:*
// scripts in the manifest.
//
// Existing module files are left untouched, so re-running Initialize only
// fills in what is missing. The manifest scripts are always rewritten.
//
// Example:
//
//	err := proj.Initialize(project.InitOptions{
//		ModulePath:     "app/lib/db",
//		PackageManager: project.PNPM,
//	})
func (p *Project) Initialize(options InitOptions) error {
	if err := p.ensureDirectory(); err != nil {
		return err
	}

	mod, err := CleanModulePath(options.ModulePath)
	if err != nil {
		return err
	}

	image, err := moduleImage(mod)
	if err != nil {
		return err
	}

	// Sorted so directories are created before the files inside them.
	paths := make([]string, 0, len(image))
	for name := range image {
		paths = append(paths, name)
	}
	sort.Strings(paths)

	for _, name := range paths {
		entry := image[name]
		fullPath := filepath.Join(p.root, filepath.FromSlash(name))

		if _, err := os.Stat(fullPath); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fsError("stat", fullPath, err)
		}

		if entry.Mode.IsDir() {
			if err := os.MkdirAll(fullPath, entry.Mode.Perm()); err != nil {
				return fsError("create directory", fullPath, err)
			}

			continue
		}

		if err := writeFileAtomic(fullPath, entry.Data); err != nil {
			return err
		}
	}

	return p.RegisterScripts(mod, options.PackageManager)
}

// ModuleFile returns the project relative, slash separated path of name inside
// the database module.
func ModuleFile(modulePath, name string) string {
	return path.Join(modulePath, name)
}

// WriteFile writes content to the project relative path name, creating parent
// directories as needed. The write is atomic.
func (p *Project) WriteFile(name, content string) error {
	fullPath := filepath.Join(p.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fullPath), consts.ModeDir); err != nil {
		return fsError("create directory", filepath.Dir(fullPath), err)
	}

	return writeFileAtomic(fullPath, []byte(content))
}

// moduleImage returns the files that make up a freshly scaffolded module.
func moduleImage(mod string) (fstest.MapFS, error) {
	var config bytes.Buffer
	if err := drizzleConfig.Execute(&config, struct{ ModulePath string }{mod}); err != nil {
		return nil, errors.Wrap(err, "failed to render drizzle config")
	}

	return fstest.MapFS{
		mod: {Mode: os.ModeDir | consts.ModeDir},
		ModuleFile(mod, consts.DrizzleConfigFile): {Data: config.Bytes()},
		ModuleFile(mod, consts.ClientFile):        {Data: clientSource},
	}, nil
}

// CleanModulePath normalizes a user supplied module path to a clean, slash
// separated path relative to the project root. Paths outside the project are
// rejected.
func CleanModulePath(mod string) (string, error) {
	mod = path.Clean(filepath.ToSlash(mod))
	if mod == "." || mod == "" || path.IsAbs(mod) || mod == ".." || strings.HasPrefix(mod, "../") {
		return "", errors.Errorf("invalid module path %q: must be a directory inside the project", mod)
	}

	return mod, nil
}

func (p *Project) ensureDirectory() error {
	dir, err := os.Stat(p.root)
	if err != nil {
		return fsError("stat", p.root, err)
	}

	if !dir.IsDir() {
		return fsError("open", p.root, errors.New("not a directory"))
	}

	return nil
}
