package generation

import "context"

// Provider defines the boundary to the external language-model service.
// This interface separates the application core from the LLM integration,
// following the hexagonal architecture pattern. Implementations issue
// exactly one upstream call per invocation; retry is a caller decision.
type Provider interface {
	// Complete sends the prompt to the language model and returns the raw
	// response text. Transport and availability failures are reported as
	// errors wrapping ErrProvider.
	Complete(ctx context.Context, prompt string) (string, error)
}
