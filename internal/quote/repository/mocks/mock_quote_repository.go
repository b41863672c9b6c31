package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/grondverzet/machinery-cms/internal/quote/domain"
)

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) Insert(ctx context.Context, q *domain.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) List(ctx context.Context, status string, limit, offset int) ([]domain.Quote, error) {
	args := m.Called(ctx, status, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]domain.Quote), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuoteRepository) Count(ctx context.Context, status string) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *MockQuoteRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Quote, error) {
	args := m.Called(ctx, id, status)
	if res := args.Get(0); res != nil {
		return res.(*domain.Quote), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
