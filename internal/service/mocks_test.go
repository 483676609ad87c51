package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/lapakly/lapak-api/internal/domain"
	"github.com/lapakly/lapak-api/internal/quota"
)

// mockAdmitter returns scripted admission outcomes.
type mockAdmitter struct {
	outcome quota.Outcome
	calls   []string
}

func (m *mockAdmitter) Admit(identity string) quota.Outcome {
	m.calls = append(m.calls, identity)
	return m.outcome
}

// mockProvider returns a scripted response or error and records prompts.
type mockProvider struct {
	response string
	err      error
	prompts  []string
}

func (m *mockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// mockContentRepo records created content and optionally fails.
type mockContentRepo struct {
	err     error
	created []*domain.GeneratedContent
}

func (m *mockContentRepo) Create(ctx context.Context, content *domain.GeneratedContent) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, content)
	return nil
}

// mockProductRepo serves one product and records category patches.
type mockProductRepo struct {
	product    *domain.Product
	getErr     error
	patchErr   error
	patchCalls []string
}

func (m *mockProductRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.product, nil
}

func (m *mockProductRepo) SetCategoryIfEmpty(ctx context.Context, id uuid.UUID, category string) error {
	m.patchCalls = append(m.patchCalls, category)
	return m.patchErr
}
