package service

import (
	"errors"
	"fmt"
	"time"
)

// Common service errors surfaced to the API layer.
var (
	// ErrRateLimited is returned when the quota ledger rejects a generation
	// request. Use errors.As with *RateLimitedError to read the retry delay.
	ErrRateLimited = errors.New("generation quota exhausted")

	// ErrGenerationFailed is returned when the upstream call or the response
	// validation fails. The wrapped error distinguishes "provider unreachable"
	// from "provider replied nonsense" for logging, but callers are not
	// promised that distinction.
	ErrGenerationFailed = errors.New("content generation failed")

	// ErrPersistenceFailed is returned when the generated artifact was valid
	// but could not be saved. This is fatal to the request; there is no
	// partial success.
	ErrPersistenceFailed = errors.New("failed to persist generated content")
)

// RateLimitedError carries the remaining window time for a rejected request.
type RateLimitedError struct {
	RetryAfter time.Duration
}

// Error implements the error interface for RateLimitedError.
func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%v: retry after %s", ErrRateLimited, e.RetryAfter)
}

// Unwrap lets errors.Is(err, ErrRateLimited) match.
func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
