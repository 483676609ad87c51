package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/platform/logger"
	"github.com/lapakly/lapak-api/internal/store"
)

// PostgresProductStore implements the store.ProductStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a new PostgreSQL implementation of the
// ProductStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

// Ensure PostgresProductStore implements store.ProductStore interface
var _ store.ProductStore = (*PostgresProductStore)(nil)

// Create implements store.ProductStore.Create
func (s *PostgresProductStore) Create(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := product.Validate(); err != nil {
		log.Warn("product validation failed during create",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	attrsJSON, err := marshalAttributes(product.Attributes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, user_id, title, price, attributes, image_url, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.UserID,
		product.Title,
		product.Price,
		attrsJSON,
		nullableString(product.ImageURL),
		nullableString(product.Category),
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()),
			slog.String("user_id", product.UserID.String()))
		return MapError(err)
	}

	log.Info("product created",
		slog.String("product_id", product.ID.String()),
		slog.String("user_id", product.UserID.String()))
	return nil
}

// GetForUser implements store.ProductStore.GetForUser
// Ownership is part of the lookup key: a product owned by someone else is
// reported as not found, never as forbidden.
func (s *PostgresProductStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, price, attributes, image_url, category, created_at, updated_at
		FROM products
		WHERE id = $1 AND user_id = $2
	`

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("product not found",
				slog.String("product_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrProductNotFound
		}
		log.Error("failed to get product",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return nil, MapError(err)
	}

	return product, nil
}

// List implements store.ProductStore.List
func (s *PostgresProductStore) List(
	ctx context.Context,
	userID uuid.UUID,
	params store.ListProductsParams,
) (*store.ProductPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 10
	}
	offset := (params.Page - 1) * params.Limit
	search := likePattern(params.Search)

	countQuery := `
		SELECT COUNT(*)
		FROM products
		WHERE user_id = $1
		  AND ($2 = '' OR title ILIKE $3 OR category ILIKE $3)
	`
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, userID, params.Search, search).Scan(&total); err != nil {
		log.Error("failed to count products", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	query := `
		SELECT id, user_id, title, price, attributes, image_url, category, created_at, updated_at
		FROM products
		WHERE user_id = $1
		  AND ($2 = '' OR title ILIKE $3 OR category ILIKE $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := s.db.QueryContext(ctx, query, userID, params.Search, search, params.Limit, offset)
	if err != nil {
		log.Error("failed to query products", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	items := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, product)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return &store.ProductPage{
		Items: items,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}

// Update implements store.ProductStore.Update
func (s *PostgresProductStore) Update(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	attrsJSON, err := marshalAttributes(product.Attributes)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET title = $1, price = $2, attributes = $3, image_url = $4, category = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		product.Title,
		product.Price,
		attrsJSON,
		nullableString(product.ImageURL),
		nullableString(product.Category),
		time.Now().UTC(),
		product.ID,
		product.UserID,
	)

	if err != nil {
		log.Error("failed to update product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProductNotFound); err != nil {
		return err
	}

	log.Info("product updated", slog.String("product_id", product.ID.String()))
	return nil
}

// Delete implements store.ProductStore.Delete
func (s *PostgresProductStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM products WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete product",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProductNotFound); err != nil {
		return err
	}

	log.Info("product deleted", slog.String("product_id", id.String()))
	return nil
}

// SetCategoryIfEmpty implements store.ProductStore.SetCategoryIfEmpty
// The guard lives in the WHERE clause so the check and the write are one
// statement; zero affected rows means the category was already set, which
// is a successful no-op here, not an error.
func (s *PostgresProductStore) SetCategoryIfEmpty(ctx context.Context, id uuid.UUID, category string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE products
		SET category = $1, updated_at = $2
		WHERE id = $3 AND (category IS NULL OR category = '')
	`

	result, err := s.db.ExecContext(ctx, query, category, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to set product category",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		log.Info("product category back-filled",
			slog.String("product_id", id.String()),
			slog.String("category", category))
	}

	return nil
}

// ListForExport implements store.ProductStore.ListForExport
// DISTINCT ON picks the newest content row per product, matching the
// "latest AI content" the dashboard shows.
func (s *PostgresProductStore) ListForExport(
	ctx context.Context,
	userID uuid.UUID,
	search string,
) ([]*store.ExportRow, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT p.title, p.price, COALESCE(p.category, ''), p.attributes,
		       COALESCE(c.description, ''), COALESCE(c.keywords, 'null'::jsonb)
		FROM products p
		LEFT JOIN (
			SELECT DISTINCT ON (product_id) product_id, description, keywords
			FROM ai_contents
			WHERE product_id IS NOT NULL
			ORDER BY product_id, created_at DESC
		) c ON c.product_id = p.id
		WHERE p.user_id = $1
		  AND ($2 = '' OR p.title ILIKE $3 OR p.category ILIKE $3)
		ORDER BY p.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, search, likePattern(search))
	if err != nil {
		log.Error("failed to query export rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	out := []*store.ExportRow{}
	for rows.Next() {
		var row store.ExportRow
		var attrsJSON, keywordsJSON []byte

		if err := rows.Scan(&row.Title, &row.Price, &row.Category, &attrsJSON, &row.Description, &keywordsJSON); err != nil {
			log.Error("failed to scan export row", slog.String("error", err.Error()))
			return nil, err
		}

		if len(attrsJSON) > 0 {
			if err := json.Unmarshal(attrsJSON, &row.Attributes); err != nil {
				return nil, fmt.Errorf("failed to unmarshal product attributes: %w", err)
			}
		}
		if len(keywordsJSON) > 0 {
			if err := json.Unmarshal(keywordsJSON, &row.Keywords); err != nil {
				return nil, fmt.Errorf("failed to unmarshal content keywords: %w", err)
			}
		}

		out = append(out, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return out, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanProduct.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct reads one product row, decoding the JSONB attributes column
// and the nullable image/category columns.
func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	var attrsJSON []byte
	var imageURL, category sql.NullString

	err := row.Scan(
		&product.ID,
		&product.UserID,
		&product.Title,
		&product.Price,
		&attrsJSON,
		&imageURL,
		&category,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(attrsJSON) > 0 {
		if err := json.Unmarshal(attrsJSON, &product.Attributes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product attributes: %w", err)
		}
	}
	product.ImageURL = imageURL.String
	product.Category = category.String

	return &product, nil
}

// marshalAttributes encodes the attribute mapping for the JSONB column,
// storing NULL for an absent mapping.
func marshalAttributes(attributes map[string]any) (any, error) {
	if attributes == nil {
		return nil, nil
	}
	data, err := json.Marshal(attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product attributes: %w", err)
	}
	return data, nil
}

// nullableString maps "" to NULL for nullable text columns.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// likePattern wraps a search term for ILIKE matching.
func likePattern(search string) string {
	return "%" + search + "%"
}

// closeRows closes rows and logs close failures, which would otherwise be lost.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
