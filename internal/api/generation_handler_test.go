package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapakly/lapak-api/internal/api/shared"
	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/generation"
	"github.com/lapakly/lapak-api/internal/quota"
	"github.com/lapakly/lapak-api/internal/service"
	"github.com/lapakly/lapak-api/internal/store"
)

type stubAdmitter struct {
	outcome quota.Outcome
}

func (s *stubAdmitter) Admit(identity string) quota.Outcome { return s.outcome }

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

type stubContentRepo struct {
	err error
}

func (s *stubContentRepo) Create(ctx context.Context, content *domain.GeneratedContent) error {
	return s.err
}

type stubProductRepo struct {
	product *domain.Product
	getErr  error
}

func (s *stubProductRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.product, nil
}

func (s *stubProductRepo) SetCategoryIfEmpty(ctx context.Context, id uuid.UUID, category string) error {
	return nil
}

const stubModelResponse = `{"description": "A sturdy oak desk.", "keywords": ["desk", "oak"], "category": "Furniture"}`

func newGenerationHandler(admitter service.Admitter, provider generation.Provider, contents service.ContentRepository, products service.ProductRepository) *GenerationHandler {
	svc := service.NewContentService(admitter, provider, contents, products, "gemini-1.5-flash", nil)
	return NewGenerationHandler(svc)
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, uuid.New())
	return req.WithContext(ctx)
}

func TestGenerateHandlerSuccess(t *testing.T) {
	handler := newGenerationHandler(
		&stubAdmitter{outcome: quota.Outcome{Allowed: true}},
		&stubProvider{response: stubModelResponse},
		&stubContentRepo{},
		&stubProductRepo{},
	)

	body, _ := json.Marshal(GenerateRequest{
		Title:      "Oak Desk",
		Attributes: map[string]any{"material": "oak"},
		Language:   "en",
	})
	req := authedRequest(t, http.MethodPost, "/api/ai/generate", body)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ContentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A sturdy oak desk.", resp.Description)
	assert.Equal(t, []string{"desk", "oak"}, resp.Keywords)
	assert.Equal(t, "Furniture", resp.Category)
	assert.Equal(t, "en", resp.Language)
	assert.Nil(t, resp.ProductID)
}

func TestGenerateHandlerRateLimited(t *testing.T) {
	handler := newGenerationHandler(
		&stubAdmitter{outcome: quota.Outcome{Allowed: false, RetryAfter: 90*time.Second + 500*time.Millisecond}},
		&stubProvider{response: stubModelResponse},
		&stubContentRepo{},
		&stubProductRepo{},
	)

	body, _ := json.Marshal(GenerateRequest{Title: "Oak Desk"})
	req := authedRequest(t, http.MethodPost, "/api/ai/generate", body)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "91", rec.Header().Get("Retry-After"))

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CodeRateLimited, resp.Error)
	assert.Equal(t, int64(91), resp.RetryAfter)
}

func TestGenerateHandlerProviderFailure(t *testing.T) {
	handler := newGenerationHandler(
		&stubAdmitter{outcome: quota.Outcome{Allowed: true}},
		&stubProvider{err: fmt.Errorf("%w: upstream timeout", generation.ErrProvider)},
		&stubContentRepo{},
		&stubProductRepo{},
	)

	body, _ := json.Marshal(GenerateRequest{Title: "Oak Desk"})
	req := authedRequest(t, http.MethodPost, "/api/ai/generate", body)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CodeGenerationFailed, resp.Error)
	// The upstream detail stays in the logs.
	assert.NotContains(t, resp.Message, "upstream timeout")
}

func TestGenerateHandlerPersistenceFailure(t *testing.T) {
	handler := newGenerationHandler(
		&stubAdmitter{outcome: quota.Outcome{Allowed: true}},
		&stubProvider{response: stubModelResponse},
		&stubContentRepo{err: fmt.Errorf("connection reset")},
		&stubProductRepo{},
	)

	body, _ := json.Marshal(GenerateRequest{Title: "Oak Desk"})
	req := authedRequest(t, http.MethodPost, "/api/ai/generate", body)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CodePersistenceFailed, resp.Error)
}

func TestGenerateHandlerRejectsMissingTitle(t *testing.T) {
	handler := newGenerationHandler(
		&stubAdmitter{outcome: quota.Outcome{Allowed: true}},
		&stubProvider{response: stubModelResponse},
		&stubContentRepo{},
		&stubProductRepo{},
	)

	body := []byte(`{"attributes": {"material": "oak"}}`)
	req := authedRequest(t, http.MethodPost, "/api/ai/generate", body)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateHandlerRejectsUnknownLanguage(t *testing.T) {
	handler := newGenerationHandler(
		&stubAdmitter{outcome: quota.Outcome{Allowed: true}},
		&stubProvider{response: stubModelResponse},
		&stubContentRepo{},
		&stubProductRepo{},
	)

	body := []byte(`{"title": "Oak Desk", "language": "fr"}`)
	req := authedRequest(t, http.MethodPost, "/api/ai/generate", body)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateHandlerRequiresAuth(t *testing.T) {
	handler := newGenerationHandler(
		&stubAdmitter{outcome: quota.Outcome{Allowed: true}},
		&stubProvider{response: stubModelResponse},
		&stubContentRepo{},
		&stubProductRepo{},
	)

	body, _ := json.Marshal(GenerateRequest{Title: "Oak Desk"})
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateForProductHandlerNotFound(t *testing.T) {
	handler := newGenerationHandler(
		&stubAdmitter{outcome: quota.Outcome{Allowed: true}},
		&stubProvider{response: stubModelResponse},
		&stubContentRepo{},
		&stubProductRepo{getErr: store.ErrProductNotFound},
	)

	req := authedRequest(t, http.MethodPost, "/api/ai/generate/"+uuid.NewString(), nil)
	req = withChiParam(req, "productID", req.URL.Path[len("/api/ai/generate/"):])
	rec := httptest.NewRecorder()

	handler.GenerateForProduct(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CodeNotFound, resp.Error)
}
