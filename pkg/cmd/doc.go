// Package cmd provides CLI commands for the pgenie tool.
//
// This package implements the command-line interface for pgenie, which
// scaffolds a Drizzle ORM database module backed by Neon Postgres and keeps
// its schema up to date from plain-language change requests.
//
// # Available Commands
//
// The cmd package currently provides:
//   - init: Provision a Neon project, scaffold the database module and
//     generate the initial schema and seed script
//   - generate: Propose a schema change, review it as a unified diff and
//     apply it on approval
//
// # Command Structure
//
// Each command is implemented as a separate function that returns a
// *cli.Command and receives its dependencies through an fx.In parameter
// struct. Commands are registered in the "commands" value group by Module.
//
// # Global Options
//
// All commands support global flags:
//   - --dir, -d: Specify project directory (defaults to current directory)
//   - --verbose: Enable debug logging
//   - --help, -h: Display command help
//   - --version, -v: Display version information
//
// # Example Usage
//
//	pgenie init                                  # Initialize project
//	pgenie init -p pnpm -m src/db                # Skip the package manager and module prompts
//	pgenie generate                              # Update the schema
//	pgenie --dir ./web --verbose generate        # Update the schema of ./web with debug logs
//
// Failures are reported with a ✗ marker and exit code 1. Declining a proposed
// change is not a failure.
package cmd
