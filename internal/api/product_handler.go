package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lapakly/lapak-api/internal/api/shared"
	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductHandler handles product CRUD API requests.
type ProductHandler struct {
	productStore store.ProductStore
	validator    *validator.Validate
}

// NewProductHandler creates a new ProductHandler with the given dependencies.
func NewProductHandler(productStore store.ProductStore) *ProductHandler {
	return &ProductHandler{
		productStore: productStore,
		validator:    validator.New(),
	}
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Title is required and price must be positive")
		return
	}

	product, err := domain.NewProduct(userID, req.Title, req.Price)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}
	product.Attributes = req.Attributes
	product.ImageURL = req.ImageURL
	product.Category = req.Category

	if err := h.productStore.Create(r.Context(), product); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewProductResponse(product))
}

// Get handles GET /products/{productID}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	productID, err := getPathUUID(r, "productID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid product ID")
		return
	}

	product, err := h.productStore.GetForUser(r.Context(), productID, userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProductResponse(product))
}

// List handles GET /products with page, limit, and search query parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	params := store.ListProductsParams{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", defaultPageSize),
		Search: r.URL.Query().Get("search"),
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > maxPageSize {
		params.Limit = defaultPageSize
	}

	page, err := h.productStore.List(r.Context(), userID, params)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	products := make([]ProductResponse, 0, len(page.Items))
	for _, p := range page.Items {
		products = append(products, NewProductResponse(p))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProductListResponse{
		Products: products,
		Total:    page.Total,
		Page:     page.Page,
		Limit:    page.Limit,
	})
}

// Update handles PUT /products/{productID}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	productID, err := getPathUUID(r, "productID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Title is required and price must be positive")
		return
	}

	// Fetch first so ownership is checked before any write.
	product, err := h.productStore.GetForUser(r.Context(), productID, userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	product.Title = req.Title
	product.Price = req.Price
	product.Attributes = req.Attributes
	product.ImageURL = req.ImageURL
	product.Category = req.Category

	if err := product.Validate(); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if err := h.productStore.Update(r.Context(), product); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProductResponse(product))
}

// Delete handles DELETE /products/{productID}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	productID, err := getPathUUID(r, "productID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidInput, "Invalid product ID")
		return
	}

	if err := h.productStore.Delete(r.Context(), productID, userID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
