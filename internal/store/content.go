package store

import (
	"context"

	"github.com/lapakly/lapak-api/internal/domain"
)

// ContentStore defines the persistence operations for generated content.
// Records are append-only: there is no update or delete path.
type ContentStore interface {
	// Create saves a generated content record.
	Create(ctx context.Context, content *domain.GeneratedContent) error
}
