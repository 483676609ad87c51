package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/lapakly/lapak-api/internal/config"
	"github.com/lapakly/lapak-api/internal/generation"
)

// Generator implements the generation.Provider interface using Google's
// Gemini API. It issues exactly one upstream call per Complete invocation;
// retry, backoff, and streaming are deliberately out of scope.
type Generator struct {
	logger  *slog.Logger
	client  *genai.Client
	model   string
	timeout time.Duration
}

// Ensure Generator implements generation.Provider
var _ generation.Provider = (*Generator)(nil)

// NewGenerator creates a Gemini-backed Provider with the provided dependencies.
//
// The request timeout is local policy, not part of the provider contract:
// the upstream API specifies no deadline, so one is imposed defensively.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: request timeout must be positive", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:  logger.With(slog.String("component", "gemini_generator")),
		client:  client,
		model:   cfg.ModelName,
		timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}, nil
}

// Model returns the configured model name, recorded alongside persisted content.
func (g *Generator) Model() string {
	return g.model
}

// Complete implements generation.Provider. Any transport or API failure is
// wrapped in generation.ErrProvider and never swallowed.
func (g *Generator) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: empty prompt", generation.ErrProvider)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.logger.DebugContext(ctx, "calling Gemini API",
		slog.String("model", g.model),
		slog.Int("prompt_length", len(prompt)))

	resp, err := g.client.Models.GenerateContent(callCtx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.String("model", g.model),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", generation.ErrProvider, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrProvider)
	}

	text := resp.Text()
	g.logger.DebugContext(ctx, "Gemini API call succeeded",
		slog.Int("response_length", len(text)))

	return text, nil
}
