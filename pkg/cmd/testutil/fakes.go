package testutil

import (
	"context"
	"sync"

	"github.com/pseudomuto/pgenie/pkg/config"
	"github.com/pseudomuto/pgenie/pkg/generator"
)

// Generator is a generator.Generator returning canned code. It records the
// arguments of every call.
type Generator struct {
	Schema string
	Seed   string

	// SchemaErr and SeedErr, when set, are returned instead of the code.
	SchemaErr error
	SeedErr   error

	mu          sync.Mutex
	SchemaCalls []SchemaCall
	SeedSchemas []string
	SeedPrompts []string
}

// SchemaCall is one recorded GenerateSchema call.
type SchemaCall struct {
	Prompt   string
	Existing string
}

var _ generator.Generator = (*Generator)(nil)

func (g *Generator) GenerateSchema(_ context.Context, prompt, existing string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.SchemaCalls = append(g.SchemaCalls, SchemaCall{Prompt: prompt, Existing: existing})
	if g.SchemaErr != nil {
		return "", &generator.GenerationError{What: "schema", Err: g.SchemaErr}
	}

	return g.Schema, nil
}

func (g *Generator) GenerateSeed(_ context.Context, schema, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.SeedSchemas = append(g.SeedSchemas, schema)
	g.SeedPrompts = append(g.SeedPrompts, prompt)
	if g.SeedErr != nil {
		return "", &generator.GenerationError{What: "seed script", Err: g.SeedErr}
	}

	return g.Seed, nil
}

// Factory returns a generator.Factory handing out g. Like the real factory it
// fails with generator.ErrMissingAPIKey when no key is configured.
func (g *Generator) Factory() generator.Factory {
	return func(cfg config.Anthropic) (generator.Generator, error) {
		if cfg.APIKey == "" {
			return nil, generator.ErrMissingAPIKey
		}

		return g, nil
	}
}
