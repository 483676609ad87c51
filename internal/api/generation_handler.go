package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lapakly/lapak-api/internal/api/shared"
	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/service"
)

// GenerationHandler handles AI content generation API requests.
type GenerationHandler struct {
	contentService *service.ContentService
	validator      *validator.Validate
}

// NewGenerationHandler creates a new GenerationHandler with the given dependencies.
func NewGenerationHandler(contentService *service.ContentService) *GenerationHandler {
	return &GenerationHandler{
		contentService: contentService,
		validator:      validator.New(),
	}
}

// Generate handles POST /ai/generate: marketing copy from a free-form title
// and attributes, with no product link.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Title is required and language must be en or id")
		return
	}

	language, err := domain.ParseLanguage(req.Language)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Language must be en or id")
		return
	}

	content, err := h.contentService.Generate(r.Context(), userID, req.Title, req.Attributes, language)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewContentResponse(content))
}

// GenerateForProduct handles POST /ai/generate/{productID}: marketing copy
// for one of the caller's existing products.
func (h *GenerationHandler) GenerateForProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	productID, err := getPathUUID(r, "productID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid product ID")
		return
	}

	// The body is optional; an absent or empty body means default language.
	var req GenerateForProductRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid request format")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Language must be en or id")
			return
		}
	}

	language, err := domain.ParseLanguage(req.Language)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Language must be en or id")
		return
	}

	content, err := h.contentService.GenerateForProduct(r.Context(), userID, productID, language)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewContentResponse(content))
}
