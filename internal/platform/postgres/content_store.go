package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/platform/logger"
	"github.com/lapakly/lapak-api/internal/store"
)

// PostgresContentStore implements the store.ContentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentStore creates a new PostgreSQL implementation of the
// ContentStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresContentStore(db store.DBTX, logger *slog.Logger) *PostgresContentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

// Ensure PostgresContentStore implements store.ContentStore interface
var _ store.ContentStore = (*PostgresContentStore)(nil)

// Create implements store.ContentStore.Create
// It saves a generated content record. Records are append-only; there is no
// corresponding update or delete.
func (s *PostgresContentStore) Create(ctx context.Context, content *domain.GeneratedContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	keywordsJSON, err := json.Marshal(content.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	query := `
		INSERT INTO ai_contents (id, product_id, description, keywords, category, model, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		content.ID,
		content.ProductID,
		content.Description,
		keywordsJSON,
		content.Category,
		content.Model,
		content.Language,
		content.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create generated content",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return MapError(err)
	}

	log.Info("generated content created",
		slog.String("content_id", content.ID.String()),
		slog.String("model", content.Model),
		slog.String("language", content.Language.String()))
	return nil
}
