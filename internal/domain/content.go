package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Content-specific validation errors
var (
	// ErrArtifactDescriptionEmpty is returned when an artifact's description
	// is empty after trimming.
	ErrArtifactDescriptionEmpty = errors.New("artifact description cannot be empty")

	// ErrArtifactKeywordsEmpty is returned when an artifact has no usable keywords.
	ErrArtifactKeywordsEmpty = errors.New("artifact must have at least one keyword")

	// ErrArtifactCategoryEmpty is returned when an artifact's category is
	// empty after trimming.
	ErrArtifactCategoryEmpty = errors.New("artifact category cannot be empty")
)

// GenerationRequest carries the inputs for a single content generation call.
// It is transient and discarded after the orchestration completes.
type GenerationRequest struct {
	UserID     uuid.UUID
	Title      string
	Attributes map[string]any
	Language   Language
	ProductID  *uuid.UUID
}

// ContentArtifact is the validated triple produced from model output.
// All string fields are trimmed of surrounding whitespace; instances built
// through NewContentArtifact are immutable by convention.
type ContentArtifact struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
}

// NewContentArtifact builds a ContentArtifact from raw field values, trimming
// every string and dropping keywords that are empty after trimming.
// Returns a validation error if any field ends up empty.
func NewContentArtifact(description string, keywords []string, category string) (*ContentArtifact, error) {
	artifact := &ContentArtifact{
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
	}

	for _, kw := range keywords {
		trimmed := strings.TrimSpace(kw)
		if trimmed != "" {
			artifact.Keywords = append(artifact.Keywords, trimmed)
		}
	}

	if err := artifact.Validate(); err != nil {
		return nil, err
	}

	return artifact, nil
}

// Validate checks the artifact invariants: all three fields present and
// non-empty, every keyword non-empty and trimmed.
func (a *ContentArtifact) Validate() error {
	if a.Description == "" || a.Description != strings.TrimSpace(a.Description) {
		return ErrArtifactDescriptionEmpty
	}

	if len(a.Keywords) == 0 {
		return ErrArtifactKeywordsEmpty
	}

	for _, kw := range a.Keywords {
		if kw == "" || kw != strings.TrimSpace(kw) {
			return ErrArtifactKeywordsEmpty
		}
	}

	if a.Category == "" || a.Category != strings.TrimSpace(a.Category) {
		return ErrArtifactCategoryEmpty
	}

	return nil
}

// GeneratedContent is a persisted content artifact. It is created exactly once
// per successful orchestration and never mutated afterwards.
type GeneratedContent struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	Description string     `json:"description"`
	Keywords    []string   `json:"keywords"`
	Category    string     `json:"category"`
	Model       string     `json:"model"`
	Language    Language   `json:"language"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewGeneratedContent creates a GeneratedContent record from a validated
// artifact. productID may be nil for generate-from-scratch results.
func NewGeneratedContent(
	artifact *ContentArtifact,
	model string,
	language Language,
	productID *uuid.UUID,
) (*GeneratedContent, error) {
	if artifact == nil {
		return nil, ErrEmptyContent
	}

	if err := artifact.Validate(); err != nil {
		return nil, err
	}

	if model == "" {
		return nil, NewValidationError("model", "cannot be empty", ErrValidation)
	}

	if !language.Valid() {
		return nil, ErrInvalidLanguage
	}

	return &GeneratedContent{
		ID:          uuid.New(),
		ProductID:   productID,
		Description: artifact.Description,
		Keywords:    artifact.Keywords,
		Category:    artifact.Category,
		Model:       model,
		Language:    language,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
