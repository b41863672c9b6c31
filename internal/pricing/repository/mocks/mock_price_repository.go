package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/grondverzet/machinery-cms/internal/pricing/domain"
)

type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) CustomerPrices(ctx context.Context, productID, customerID string) ([]domain.PriceRecord, error) {
	args := m.Called(ctx, productID, customerID)
	if res := args.Get(0); res != nil {
		return res.([]domain.PriceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPriceRepository) GeneralPrices(ctx context.Context, productID string) ([]domain.PriceRecord, error) {
	args := m.Called(ctx, productID)
	if res := args.Get(0); res != nil {
		return res.([]domain.PriceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPriceRepository) History(ctx context.Context, productID string) ([]domain.PriceRecord, error) {
	args := m.Called(ctx, productID)
	if res := args.Get(0); res != nil {
		return res.([]domain.PriceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPriceRepository) Insert(ctx context.Context, rec *domain.PriceRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockPriceRepository) Update(ctx context.Context, id string, upd domain.PriceUpdate) (*domain.PriceRecord, error) {
	args := m.Called(ctx, id, upd)
	if res := args.Get(0); res != nil {
		return res.(*domain.PriceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPriceRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
