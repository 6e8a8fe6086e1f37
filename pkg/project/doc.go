// Package project manages the JavaScript project that pgenie scaffolds a
// Drizzle ORM database module into.
//
// # Project Structure
//
// After initialization a project looks like this (the module path is chosen
// by the user and defaults to app/lib/db):
//
//	project-root/
//	├── package.json            # db:generate, db:migrate and db:seed scripts
//	├── .env                    # DATABASE_URL
//	└── app/lib/db/
//	    ├── config.ts           # drizzle-kit configuration
//	    ├── index.ts            # postgres-js drizzle client
//	    ├── schema.ts           # generated schema
//	    ├── seed.ts             # generated seed script
//	    └── migrations/         # written by drizzle-kit
//
// The manifest is the source of truth for the module location: ModulePath
// recovers it from the --config flag of the db:generate script, so later
// commands work no matter where the module was placed.
//
// # File Safety
//
// Files that are regenerated (the schema, the seed script and the manifest)
// are replaced atomically through a temporary file in the same directory.
// Every filesystem failure is a *FileError matching ErrFilesystem.
//
// # Package Managers
//
// PackageManager knows the install and run command lines of npm, yarn, pnpm
// and bun, and executes them through a shell.Runner.
package project
