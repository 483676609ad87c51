package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapakly/lapak-api/internal/api/shared"
	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/store"
)

// stubProductStore lets each test script the store calls it cares about.
type stubProductStore struct {
	product   *domain.Product
	getErr    error
	updateErr error
	deleteErr error
}

func (s *stubProductStore) Create(ctx context.Context, product *domain.Product) error {
	return nil
}

func (s *stubProductStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.product, nil
}

func (s *stubProductStore) List(ctx context.Context, userID uuid.UUID, params store.ListProductsParams) (*store.ProductPage, error) {
	return &store.ProductPage{Items: []*domain.Product{}, Page: params.Page, Limit: params.Limit}, nil
}

func (s *stubProductStore) Update(ctx context.Context, product *domain.Product) error {
	return s.updateErr
}

func (s *stubProductStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.deleteErr
}

func (s *stubProductStore) SetCategoryIfEmpty(ctx context.Context, id uuid.UUID, category string) error {
	return nil
}

func (s *stubProductStore) ListForExport(ctx context.Context, userID uuid.UUID, search string) ([]*store.ExportRow, error) {
	return nil, nil
}

func deleteRequest(t *testing.T, productID uuid.UUID) *http.Request {
	t.Helper()
	req := authedRequest(t, http.MethodDelete, "/api/products/"+productID.String(), nil)
	return withChiParam(req, "productID", productID.String())
}

func TestProductDeleteMissingReturnsNotFound(t *testing.T) {
	handler := NewProductHandler(&stubProductStore{deleteErr: store.ErrProductNotFound})

	rec := httptest.NewRecorder()
	handler.Delete(rec, deleteRequest(t, uuid.New()))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CodeNotFound, resp.Error)
	assert.Equal(t, "Product not found", resp.Message)
}

func TestProductDeleteSuccess(t *testing.T) {
	handler := NewProductHandler(&stubProductStore{})

	rec := httptest.NewRecorder()
	handler.Delete(rec, deleteRequest(t, uuid.New()))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProductUpdateVanishedRowReturnsNotFound(t *testing.T) {
	userID := uuid.New()
	product := &domain.Product{
		ID:     uuid.New(),
		UserID: userID,
		Title:  "Oak Desk",
		Price:  150,
	}

	// The ownership fetch succeeds but the row is gone by write time.
	handler := NewProductHandler(&stubProductStore{
		product:   product,
		updateErr: store.ErrProductNotFound,
	})

	body, _ := json.Marshal(UpdateProductRequest{Title: "Walnut Desk", Price: 200})
	req := authedRequest(t, http.MethodPut, "/api/products/"+product.ID.String(), body)
	req = withChiParam(req, "productID", product.ID.String())
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CodeNotFound, resp.Error)
}
