package generator_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/config"
	"github.com/pseudomuto/pgenie/pkg/generator"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply    *llms.ContentResponse
	err      error
	prompt   string
	options  llms.CallOptions
	deadline bool
	calls    int
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	_, f.deadline = ctx.Deadline()

	for _, opt := range options {
		opt(&f.options)
	}

	if len(messages) == 1 && messages[0].Role == llms.ChatMessageTypeHuman && len(messages[0].Parts) == 1 {
		if text, ok := messages[0].Parts[0].(llms.TextContent); ok {
			f.prompt = text.Text
		}
	}

	return f.reply, f.err
}

func replying(content string) *fakeModel {
	return &fakeModel{reply: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}}
}

func anthropicConfig() config.Anthropic {
	return config.Anthropic{Model: "claude-test", MaxTokens: 1024, Timeout: time.Minute}
}

func TestGenerateSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("new schema", func(t *testing.T) {
		model := replying("```typescript\nexport const users = pgTable(...);\n```\n")
		gen := generator.New(model, anthropicConfig())

		schema, err := gen.GenerateSchema(ctx, "a blog with users", "")
		require.NoError(t, err)
		require.Equal(t, "export const users = pgTable(...);\n", schema)

		require.Equal(t, 1, model.calls)
		require.Contains(t, model.prompt, "This is a new schema with no existing tables.")
		require.Contains(t, model.prompt, "USER REQUIREMENTS:\na blog with users\n")
		require.NotContains(t, model.prompt, "CURRENT SCHEMA")
		require.Equal(t, "claude-test", model.options.Model)
		require.Equal(t, 1024, model.options.MaxTokens)
		require.True(t, model.deadline)
	})

	t.Run("existing schema", func(t *testing.T) {
		model := replying("export const posts = pgTable(...);")
		gen := generator.New(model, anthropicConfig())

		_, err := gen.GenerateSchema(ctx, "add posts", "export const users = pgTable(...);\n")
		require.NoError(t, err)
		require.Contains(t, model.prompt, "CURRENT SCHEMA:\n```typescript\nexport const users = pgTable(...);\n")
		require.NotContains(t, model.prompt, "no existing tables")
	})

	t.Run("model failure", func(t *testing.T) {
		model := &fakeModel{err: errors.New("overloaded")}

		_, err := generator.New(model, anthropicConfig()).GenerateSchema(ctx, "x", "")
		require.True(t, errors.Is(err, generator.ErrGeneration))
		require.EqualError(t, err, "failed to generate schema: overloaded")
	})

	t.Run("invalid responses", func(t *testing.T) {
		for _, model := range []*fakeModel{
			{reply: &llms.ContentResponse{}},
			{reply: nil},
			replying("   ```typescript\n```  "),
		} {
			_, err := generator.New(model, anthropicConfig()).GenerateSchema(ctx, "x", "")
			require.True(t, errors.Is(err, generator.ErrGeneration))
			require.True(t, errors.Is(err, generator.ErrInvalidResponse))
			require.EqualError(t, err, "failed to generate schema: invalid response from AI model")
		}
	})

	t.Run("strips only the wrapping fence", func(t *testing.T) {
		tests := []struct {
			reply string
			want  string
		}{
			{reply: "```typescript\nconst a = 1;\n```", want: "const a = 1;\n"},
			{reply: "\n```ts\nconst a = 1;\n```  \n", want: "const a = 1;\n"},
			{reply: "```\nconst a = 1;\n```", want: "const a = 1;\n"},
			{reply: "const a = 1;", want: "const a = 1;\n"},
			{
				reply: "const doc = `\n```sql\nselect 1\n```\n`;",
				want:  "const doc = `\n```sql\nselect 1\n```\n`;\n",
			},
			{
				reply: "```typescript\nconst md = '```';\nconst b = 2;\n```",
				want:  "const md = '```';\nconst b = 2;\n",
			},
		}

		for _, tt := range tests {
			schema, err := generator.New(replying(tt.reply), anthropicConfig()).GenerateSchema(ctx, "x", "")
			require.NoError(t, err, tt.reply)
			require.Equal(t, tt.want, schema, tt.reply)
		}
	})

	t.Run("no timeout configured", func(t *testing.T) {
		model := replying("x")
		cfg := anthropicConfig()
		cfg.Timeout = 0

		_, err := generator.New(model, cfg).GenerateSchema(ctx, "x", "")
		require.NoError(t, err)
		require.False(t, model.deadline)
	})
}

func TestGenerateSeed(t *testing.T) {
	model := replying("import { db } from './index';\n")
	gen := generator.New(model, anthropicConfig())

	seed, err := gen.GenerateSeed(context.Background(), "export const users = pgTable(...);\n", "a blog")
	require.NoError(t, err)
	require.Equal(t, "import { db } from './index';\n", seed)
	require.Contains(t, model.prompt, "SCHEMA:\n```typescript\nexport const users = pgTable(...);\n")
	require.Contains(t, model.prompt, "Import and use the db client from './index'")

	model.err = errors.New("boom")
	_, err = gen.GenerateSeed(context.Background(), "s", "p")
	require.EqualError(t, err, "failed to generate seed script: boom")
}

func TestNewAnthropic(t *testing.T) {
	_, err := generator.NewAnthropic(config.Anthropic{Model: "claude-test"})
	require.ErrorIs(t, err, generator.ErrMissingAPIKey)

	gen, err := generator.NewAnthropic(config.Anthropic{Model: "claude-test", APIKey: "sk-test"})
	require.NoError(t, err)
	require.NotNil(t, gen)
}
