package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrProvider is returned when the upstream language-model call fails
	// for transport or availability reasons.
	ErrProvider = errors.New("language model provider call failed")

	// ErrMalformedResponse is returned when the provider responded but the
	// text failed structural validation.
	ErrMalformedResponse = errors.New("malformed response from language model")

	// ErrEmptyTitle is returned when a prompt is requested for an empty title.
	ErrEmptyTitle = errors.New("product title cannot be empty")

	// ErrInvalidConfig is returned when the provider configuration is invalid.
	ErrInvalidConfig = errors.New("invalid provider configuration")
)
