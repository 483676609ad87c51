package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/generation"
	"github.com/lapakly/lapak-api/internal/platform/logger"
	"github.com/lapakly/lapak-api/internal/quota"
)

// Admitter decides whether an identity may issue another generation request.
// Implemented by quota.Ledger.
type Admitter interface {
	Admit(identity string) quota.Outcome
}

// ContentRepository defines the persistence boundary for generated content.
// Aligned with store.ContentStore.
type ContentRepository interface {
	Create(ctx context.Context, content *domain.GeneratedContent) error
}

// ProductRepository defines the product operations the orchestrator needs.
// Aligned with store.ProductStore.
type ProductRepository interface {
	// GetForUser retrieves a product scoped to its owner; absent and
	// not-owned both surface as store.ErrProductNotFound.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Product, error)

	// SetCategoryIfEmpty writes the category only when none is set yet.
	SetCategoryIfEmpty(ctx context.Context, id uuid.UUID, category string) error
}

// ContentService orchestrates a generation request end to end: quota
// admission, prompt construction, the upstream model call, response
// validation, persistence, and the optional product category back-fill.
//
// Admission happens before either blocking call, so a generation that fails
// after being admitted still costs the identity one quota unit for the
// window. That is deliberate: it keeps retry storms away from the upstream
// provider. Nothing is retried automatically; re-issuing a request is a
// caller decision and consumes fresh budget.
type ContentService struct {
	admitter  Admitter
	provider  generation.Provider
	contents  ContentRepository
	products  ProductRepository
	modelName string
	logger    *slog.Logger
}

// NewContentService creates a ContentService with the given collaborators.
// If logger is nil, a default logger will be used.
func NewContentService(
	admitter Admitter,
	provider generation.Provider,
	contents ContentRepository,
	products ProductRepository,
	modelName string,
	log *slog.Logger,
) *ContentService {
	if admitter == nil || provider == nil || contents == nil || products == nil {
		panic("content service collaborators cannot be nil")
	}
	if modelName == "" {
		panic("model name cannot be empty")
	}

	if log == nil {
		log = slog.Default()
	}

	return &ContentService{
		admitter:  admitter,
		provider:  provider,
		contents:  contents,
		products:  products,
		modelName: modelName,
		logger:    log.With(slog.String("component", "content_service")),
	}
}

// Generate produces and persists marketing copy from a free-form title and
// attribute mapping, with no product link.
func (s *ContentService) Generate(
	ctx context.Context,
	userID uuid.UUID,
	title string,
	attributes map[string]any,
	language domain.Language,
) (*domain.GeneratedContent, error) {
	// Input rejection happens before admission: a request that was never
	// valid must not consume budget.
	if strings.TrimSpace(title) == "" {
		return nil, generation.ErrEmptyTitle
	}

	if err := s.admit(ctx, userID); err != nil {
		return nil, err
	}

	req := domain.GenerationRequest{
		UserID:     userID,
		Title:      title,
		Attributes: attributes,
		Language:   language,
	}

	return s.run(ctx, req, nil)
}

// GenerateForProduct produces and persists marketing copy for one of the
// user's existing products, building the request from the stored title and
// attributes. On success the product's category is back-filled if it was
// empty.
func (s *ContentService) GenerateForProduct(
	ctx context.Context,
	userID uuid.UUID,
	productID uuid.UUID,
	language domain.Language,
) (*domain.GeneratedContent, error) {
	// Admission comes first: a lookup that misses still costs a unit, the
	// same as the from-scratch path.
	if err := s.admit(ctx, userID); err != nil {
		return nil, err
	}

	product, err := s.products.GetForUser(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	req := domain.GenerationRequest{
		UserID:     userID,
		Title:      product.Title,
		Attributes: product.Attributes,
		Language:   language,
		ProductID:  &product.ID,
	}

	return s.run(ctx, req, product)
}

// admit consumes one unit of the identity's budget or fails with a
// RateLimitedError carrying the remaining window time.
func (s *ContentService) admit(ctx context.Context, userID uuid.UUID) error {
	outcome := s.admitter.Admit(userID.String())
	if outcome.Allowed {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("generation request rate limited",
		slog.String("user_id", userID.String()),
		slog.Duration("retry_after", outcome.RetryAfter))

	return &RateLimitedError{RetryAfter: outcome.RetryAfter}
}

// run executes the admitted pipeline: build prompt, call the provider,
// validate, persist, and optionally back-fill the product category.
func (s *ContentService) run(
	ctx context.Context,
	req domain.GenerationRequest,
	product *domain.Product,
) (*domain.GeneratedContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	prompt, err := generation.BuildPrompt(req.Title, req.Attributes, req.Language)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		log.Error("upstream generation call failed",
			slog.String("user_id", req.UserID.String()),
			slog.String("failure", "provider_error"),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	artifact, err := generation.ParseArtifact(raw)
	if err != nil {
		log.Error("model response failed validation",
			slog.String("user_id", req.UserID.String()),
			slog.String("failure", "malformed_response"),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	content, err := domain.NewGeneratedContent(artifact, s.modelName, req.Language, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if err := s.contents.Create(ctx, content); err != nil {
		log.Error("failed to persist generated content",
			slog.String("user_id", req.UserID.String()),
			slog.String("content_id", content.ID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	// The category back-fill is a best-effort secondary write with its own
	// failure domain: the content is already persisted, so a failed patch
	// degrades to success-with-warning instead of rolling anything back.
	if product != nil && product.Category == "" && artifact.Category != "" {
		if err := s.products.SetCategoryIfEmpty(ctx, product.ID, artifact.Category); err != nil {
			log.Warn("product category back-fill failed",
				slog.String("product_id", product.ID.String()),
				slog.String("category", artifact.Category),
				slog.String("error", err.Error()))
		}
	}

	log.Info("generation completed",
		slog.String("user_id", req.UserID.String()),
		slog.String("content_id", content.ID.String()),
		slog.String("language", req.Language.String()))

	return content, nil
}
