package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/lapakly/lapak-api/internal/domain"
)

// ListProductsParams controls pagination and filtering of product listings.
type ListProductsParams struct {
	Page   int
	Limit  int
	Search string
}

// ProductPage is one page of a user's products plus the overall count.
type ProductPage struct {
	Items []*domain.Product
	Total int
	Page  int
	Limit int
}

// ExportRow is a product joined with its latest generated content, shaped
// for the CSV export.
type ExportRow struct {
	Title       string
	Price       float64
	Category    string
	Attributes  map[string]any
	Description string
	Keywords    []string
}

// ProductStore defines the persistence operations for products.
// Every read and write is scoped to the owning user; a product that exists
// but belongs to someone else behaves exactly like one that does not exist.
type ProductStore interface {
	// Create saves a new product to the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetForUser retrieves a product by ID, scoped to the given owner.
	// Returns ErrProductNotFound if the product is absent or not owned.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Product, error)

	// List returns one page of the user's products, newest first, optionally
	// filtered by a case-insensitive title/category search.
	List(ctx context.Context, userID uuid.UUID, params ListProductsParams) (*ProductPage, error)

	// Update saves changes to an existing product, scoped to the owner.
	// Returns ErrProductNotFound if the product is absent or not owned.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product, scoped to the owner.
	// Returns ErrProductNotFound if the product is absent or not owned.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// SetCategoryIfEmpty writes the category onto the product only when the
	// stored category is currently empty. Writing to a product that already
	// has a category is a no-op, never an overwrite.
	SetCategoryIfEmpty(ctx context.Context, id uuid.UUID, category string) error

	// ListForExport returns all of the user's products joined with the
	// latest generated content per product, newest product first.
	ListForExport(ctx context.Context, userID uuid.UUID, search string) ([]*ExportRow, error)
}
