package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/lapakly/lapak-api/internal/api/shared"
	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/generation"
	"github.com/lapakly/lapak-api/internal/service"
	"github.com/lapakly/lapak-api/internal/service/auth"
	"github.com/lapakly/lapak-api/internal/store"
)

// Stable machine-readable error codes exposed to clients.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeEmailExists       = "EMAIL_EXISTS"
	CodeRateLimited       = "RATE_LIMITED"
	CodeGenerationFailed  = "GENERATION_FAILED"
	CodePersistenceFailed = "PERSISTENCE_FAILED"
	CodeInternal          = "INTERNAL"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests

	// The generic sentinel also matches every entity-specific not-found
	// error, including errors wrapping the sentinel from the other side
	// (e.g. zero-rows update/delete results).
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidLanguage),
		errors.Is(err, domain.ErrProductTitleEmpty),
		errors.Is(err, domain.ErrProductPriceInvalid),
		errors.Is(err, generation.ErrEmptyTitle),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Generation and persistence failures are both server-side faults, even
	// though clients can tell them apart by code.
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCodeFor maps internal errors to the stable error code carried in the
// response body.
func ErrorCodeFor(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return CodeUnauthorized

	case errors.Is(err, service.ErrRateLimited):
		return CodeRateLimited

	case errors.Is(err, store.ErrNotFound):
		return CodeNotFound

	case errors.Is(err, store.ErrEmailExists):
		return CodeEmailExists

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidLanguage),
		errors.Is(err, domain.ErrProductTitleEmpty),
		errors.Is(err, domain.ErrProductPriceInvalid),
		errors.Is(err, generation.ErrEmptyTitle),
		errors.Is(err, store.ErrInvalidEntity):
		return CodeInvalidInput

	case errors.Is(err, service.ErrGenerationFailed):
		return CodeGenerationFailed

	case errors.Is(err, service.ErrPersistenceFailed):
		return CodePersistenceFailed

	default:
		return CodeInternal
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrRateLimited):
		return "Generation quota exhausted, try again later"

	case errors.Is(err, store.ErrProductNotFound):
		return "Product not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrGenerationFailed):
		return "Content generation failed"

	case errors.Is(err, service.ErrPersistenceFailed):
		return "Failed to save generated content"

	case errors.Is(err, generation.ErrEmptyTitle):
		return "Title cannot be empty"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidLanguage),
		errors.Is(err, domain.ErrProductTitleEmpty),
		errors.Is(err, domain.ErrProductPriceInvalid),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid input"

	default:
		return "An unexpected error occurred"
	}
}

// RespondWithMappedError translates an internal error into the standard error
// response: status, code, and safe message, plus retry metadata for quota
// rejections.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	code := ErrorCodeFor(err)
	message := GetSafeErrorMessage(err)

	var rle *service.RateLimitedError
	if errors.As(err, &rle) {
		seconds := retryAfterSeconds(rle.RetryAfter)
		shared.RespondWithErrorAndLog(w, r, status, code, message, err,
			shared.WithRetryAfter(seconds))
		return
	}

	shared.RespondWithErrorAndLog(w, r, status, code, message, err)
}

// retryAfterSeconds rounds a retry delay up to whole seconds, with a floor of
// one second so clients never receive a zero that invites an immediate retry.
func retryAfterSeconds(d time.Duration) int64 {
	seconds := int64((d + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
