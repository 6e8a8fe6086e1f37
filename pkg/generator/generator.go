// Package generator asks a large language model to write Drizzle ORM schema
// and seed code from a natural-language description.
//
// Each call is a single request to the model with no retries. Replies are
// cleaned of markdown code fences and surrounding whitespace and end in a
// single newline; the code itself is not inspected.
package generator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

const codeFence = "```"

var (
	// ErrGeneration is matched by every error returned from a generation call.
	ErrGeneration = errors.New("generation failed")

	// ErrInvalidResponse is returned when the model replies without text.
	ErrInvalidResponse = errors.New("invalid response from AI model")

	// ErrMissingAPIKey is returned when no Anthropic API key is configured.
	ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY environment variable is not set")

	//go:embed embed/schema.tmpl
	schemaPrompt string

	//go:embed embed/seed.tmpl
	seedPrompt string

	prompts = template.Must(template.New("schema").Parse(schemaPrompt))
	_       = template.Must(prompts.New("seed").Parse(seedPrompt))
)

type (
	// Generator produces TypeScript source from user prompts.
	Generator interface {
		// GenerateSchema returns a complete schema file satisfying prompt.
		// existing is the current schema, or empty for a new project.
		GenerateSchema(ctx context.Context, prompt, existing string) (string, error)

		// GenerateSeed returns a seed script for schema.
		GenerateSeed(ctx context.Context, schema, prompt string) (string, error)
	}

	// Factory builds a Generator from configuration.
	Factory func(config.Anthropic) (Generator, error)

	// TextModel is the part of a langchaingo model the Client needs.
	TextModel interface {
		GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
	}

	// Client is a Generator backed by a TextModel.
	Client struct {
		model     TextModel
		name      string
		maxTokens int
		timeout   time.Duration
	}

	// GenerationError wraps the cause of a failed generation.
	GenerationError struct {
		// What names the artifact, e.g. "schema" or "seed script".
		What string
		Err  error
	}
)

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.What, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrGeneration) true for every *GenerationError.
func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// New returns a Client for model using the model name, token limit and
// timeout in cfg.
func New(model TextModel, cfg config.Anthropic) *Client {
	return &Client{
		model:     model,
		name:      cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

// NewAnthropic is the default Factory. It connects to Anthropic with the API
// key from cfg.
func NewAnthropic(cfg config.Anthropic) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	llm, err := anthropic.New(anthropic.WithToken(cfg.APIKey), anthropic.WithModel(cfg.Model))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create anthropic client")
	}

	return New(llm, cfg), nil
}

func (c *Client) GenerateSchema(ctx context.Context, prompt, existing string) (string, error) {
	return c.generate(ctx, "schema", "schema", map[string]string{
		"Prompt":   prompt,
		"Existing": existing,
	})
}

func (c *Client) GenerateSeed(ctx context.Context, schema, prompt string) (string, error) {
	return c.generate(ctx, "seed script", "seed", map[string]string{
		"Prompt": prompt,
		"Schema": schema,
	})
}

func (c *Client) generate(ctx context.Context, what, tmpl string, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return "", &GenerationError{What: what, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	opts := []llms.CallOption{llms.WithMaxTokens(c.maxTokens)}
	if c.name != "" {
		opts = append(opts, llms.WithModel(c.name))
	}

	start := time.Now()
	slog.Debug("Calling model", "what", what, "model", c.name, "max_tokens", c.maxTokens)

	resp, err := c.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, buf.String()),
	}, opts...)

	slog.Debug("Model returned", "what", what, "elapsed", time.Since(start), "err", err)

	if err != nil {
		return "", &GenerationError{What: what, Err: err}
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", &GenerationError{What: what, Err: ErrInvalidResponse}
	}

	code := cleanReply(resp.Choices[0].Content)
	if code == "" {
		return "", &GenerationError{What: what, Err: ErrInvalidResponse}
	}

	return code + "\n", nil
}

// cleanReply strips a markdown code fence wrapping a model reply along with
// surrounding whitespace. Only the opening and closing lines are considered;
// backticks inside the code are kept.
func cleanReply(reply string) string {
	lines := strings.Split(strings.TrimSpace(reply), "\n")
	if isFence(lines[0]) {
		lines = lines[1:]
	}

	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == codeFence {
		lines = lines[:n-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// isFence reports whether line opens a code block, e.g. ```typescript.
func isFence(line string) bool {
	lang, ok := strings.CutPrefix(strings.TrimSpace(line), codeFence)
	return ok && !strings.ContainsAny(lang, "` \t")
}
