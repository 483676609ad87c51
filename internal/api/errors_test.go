package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lapakly/lapak-api/internal/generation"
	"github.com/lapakly/lapak-api/internal/service"
	"github.com/lapakly/lapak-api/internal/service/auth"
	"github.com/lapakly/lapak-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired refresh token", auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{"rate limited", &service.RateLimitedError{RetryAfter: time.Minute}, http.StatusTooManyRequests},
		{"product not found", store.ErrProductNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"wrapped generic not found", fmt.Errorf("%w: product not found", store.ErrNotFound), http.StatusNotFound},
		{"zero rows delete", fmt.Errorf("delete: %w", store.ErrProductNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"empty title", generation.ErrEmptyTitle, http.StatusBadRequest},
		{"generation failed", fmt.Errorf("%w: upstream", service.ErrGenerationFailed), http.StatusInternalServerError},
		{"persistence failed", fmt.Errorf("%w: db down", service.ErrPersistenceFailed), http.StatusInternalServerError},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestErrorCodeForDistinguishesServerFaults(t *testing.T) {
	genErr := fmt.Errorf("%w: upstream timeout", service.ErrGenerationFailed)
	persistErr := fmt.Errorf("%w: connection reset", service.ErrPersistenceFailed)

	assert.Equal(t, CodeGenerationFailed, ErrorCodeFor(genErr))
	assert.Equal(t, CodePersistenceFailed, ErrorCodeFor(persistErr))
	assert.Equal(t, CodeInternal, ErrorCodeFor(fmt.Errorf("boom")))
	assert.Equal(t, CodeRateLimited, ErrorCodeFor(&service.RateLimitedError{RetryAfter: time.Minute}))
	assert.Equal(t, CodeNotFound, ErrorCodeFor(store.ErrProductNotFound))
	assert.Equal(t, CodeNotFound, ErrorCodeFor(fmt.Errorf("%w: product not found", store.ErrNotFound)))
}

func TestGetSafeErrorMessageNeverEchoesInternals(t *testing.T) {
	internal := fmt.Errorf("pq: connection to 10.0.0.5:5432 refused")
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "10.0.0.5")
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want int64
	}{
		{"exact seconds pass through", 90 * time.Second, 90},
		{"fractions round up", 1500 * time.Millisecond, 2},
		{"sub-second floors to one", 10 * time.Millisecond, 1},
		{"zero floors to one", 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, retryAfterSeconds(tc.in))
		})
	}
}
