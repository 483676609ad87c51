package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lapakly/lapak-api/internal/domain"
)

// artifactSchema is the expected structure of the model's JSON payload.
type artifactSchema struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
}

// ParseArtifact extracts and validates a content artifact from raw model
// output. The model is instructed to answer with a JSON object but often
// wraps it in prose, so the parser takes the span between the first '{' and
// the last '}' and parses that. Every failure mode is reported as an error
// wrapping ErrMalformedResponse; the provider is treated as an untrusted
// input source throughout.
func ParseArtifact(raw string) (*domain.ContentArtifact, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrMalformedResponse)
	}

	var parsed artifactSchema
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	artifact, err := domain.NewContentArtifact(parsed.Description, parsed.Keywords, parsed.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return artifact, nil
}
