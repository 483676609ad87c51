package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lapakly/lapak-api/internal/api/shared"
	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/service/auth"
	"github.com/lapakly/lapak-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid email or password")
		return
	}

	hash, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to create user")
		return
	}

	user, err := domain.NewUser(req.Email, hash)
	if err != nil {
		RespondWithMappedError(w, r, domain.NewValidationError("email", "is invalid", domain.ErrValidation))
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			RespondWithMappedError(w, r, err)
			return
		}
		slog.Error("failed to create user", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to create user")
		return
	}

	resp, ok := h.tokenPair(w, r, user)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid email or password")
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same response as a wrong password: no account enumeration.
			shared.RespondWithError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get user by email", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.PasswordHash, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Invalid credentials")
		return
	}

	resp, ok := h.tokenPair(w, r, user)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Refresh handles the /auth/refresh endpoint: it exchanges a valid refresh
// token for a fresh access/refresh token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Refresh token is required")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Invalid refresh token")
			return
		}
		slog.Error("failed to get user by id", "error", err, "user_id", claims.UserID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to refresh tokens")
		return
	}

	resp, ok := h.tokenPair(w, r, user)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// tokenPair issues an access and refresh token for the user. On failure it
// writes the error response and returns false.
func (h *AuthHandler) tokenPair(w http.ResponseWriter, r *http.Request, user *domain.User) (*AuthResponse, bool) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to generate access token", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to generate authentication token")
		return nil, false
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to generate refresh token", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to generate authentication token")
		return nil, false
	}

	return &AuthResponse{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, true
}
