package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/lapakly/lapak-api/internal/domain"
)

// UserStore defines the persistence operations for user accounts.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already in use.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
