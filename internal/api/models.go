package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/lapakly/lapak-api/internal/domain"
)

// RegisterRequest represents the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the payload for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse represents the response for successful authentication.
type AuthResponse struct {
	UserID       uuid.UUID `json:"userId"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

// GenerateRequest represents the payload for a from-scratch generation.
// Language defaults to English when omitted.
type GenerateRequest struct {
	Title      string         `json:"title"      validate:"required"`
	Attributes map[string]any `json:"attributes" validate:"omitempty"`
	Language   string         `json:"language"   validate:"omitempty,oneof=en id"`
}

// GenerateForProductRequest represents the payload for a product-linked
// generation; the product ID comes from the URL.
type GenerateForProductRequest struct {
	Language string `json:"language" validate:"omitempty,oneof=en id"`
}

// ContentResponse represents a persisted generation result.
type ContentResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   *uuid.UUID `json:"productId,omitempty"`
	Description string     `json:"description"`
	Keywords    []string   `json:"keywords"`
	Category    string     `json:"category"`
	Model       string     `json:"model"`
	Language    string     `json:"language"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewContentResponse converts a domain content record into its API shape.
func NewContentResponse(content *domain.GeneratedContent) ContentResponse {
	return ContentResponse{
		ID:          content.ID,
		ProductID:   content.ProductID,
		Description: content.Description,
		Keywords:    content.Keywords,
		Category:    content.Category,
		Model:       content.Model,
		Language:    content.Language.String(),
		CreatedAt:   content.CreatedAt,
	}
}

// CreateProductRequest represents the payload for creating a product.
type CreateProductRequest struct {
	Title      string         `json:"title"      validate:"required,max=255"`
	Price      float64        `json:"price"      validate:"required,gt=0"`
	Attributes map[string]any `json:"attributes" validate:"omitempty"`
	ImageURL   string         `json:"imageUrl"   validate:"omitempty,url"`
	Category   string         `json:"category"   validate:"omitempty,max=100"`
}

// UpdateProductRequest represents the payload for updating a product.
type UpdateProductRequest struct {
	Title      string         `json:"title"      validate:"required,max=255"`
	Price      float64        `json:"price"      validate:"required,gt=0"`
	Attributes map[string]any `json:"attributes" validate:"omitempty"`
	ImageURL   string         `json:"imageUrl"   validate:"omitempty,url"`
	Category   string         `json:"category"   validate:"omitempty,max=100"`
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID         uuid.UUID      `json:"id"`
	Title      string         `json:"title"`
	Price      float64        `json:"price"`
	Attributes map[string]any `json:"attributes,omitempty"`
	ImageURL   string         `json:"imageUrl,omitempty"`
	Category   string         `json:"category,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// NewProductResponse converts a domain product into its API shape.
func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:         product.ID,
		Title:      product.Title,
		Price:      product.Price,
		Attributes: product.Attributes,
		ImageURL:   product.ImageURL,
		Category:   product.Category,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

// ProductListResponse represents one page of a user's products.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}
