package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Product-specific validation errors
var (
	// ErrProductTitleEmpty is returned when a product's title is empty.
	ErrProductTitleEmpty = errors.New("product title cannot be empty")

	// ErrProductPriceInvalid is returned when a product's price is not positive.
	ErrProductPriceInvalid = errors.New("product price must be positive")

	// ErrProductUserIDEmpty is returned when a product's user ID is empty or nil.
	ErrProductUserIDEmpty = errors.New("product user ID cannot be empty")
)

// Product represents a seller's product record. Attributes is a free-form
// mapping stored as JSONB; Category is empty until the seller sets it or a
// generation back-fills it.
type Product struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	Title      string         `json:"title"`
	Price      float64        `json:"price"`
	Attributes map[string]any `json:"attributes,omitempty"`
	ImageURL   string         `json:"image_url,omitempty"`
	Category   string         `json:"category,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewProduct creates a new Product owned by the given user.
// Returns an error if validation fails.
func NewProduct(userID uuid.UUID, title string, price float64) (*Product, error) {
	now := time.Now().UTC()
	product := &Product{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate checks if the Product has valid data.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidID
	}

	if p.UserID == uuid.Nil {
		return ErrProductUserIDEmpty
	}

	if p.Title == "" {
		return ErrProductTitleEmpty
	}

	if p.Price <= 0 {
		return ErrProductPriceInvalid
	}

	return nil
}
