package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/grondverzet/machinery-cms/internal/pricing/domain"
	"github.com/grondverzet/machinery-cms/internal/pricing/repository"
	"github.com/grondverzet/machinery-cms/internal/pricing/repository/mocks"
)

const productID = "7f0b6f9e-4a9a-4a0e-8d3c-4242aaaa4242"

func newTestService(repo repository.PriceRepository, now time.Time) PricingService {
	svc := NewPricingService(repo).(*pricingServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func TestPricingService_Resolve(t *testing.T) {
	ctx := context.TODO()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	customerID := "c2a9e7b1-0000-4000-8000-000000000001"

	generalRecord := domain.PriceRecord{ID: "gen", ProductID: productID, Price: "1000.00"}
	customerRecord := domain.PriceRecord{
		ID: "cust", ProductID: productID, Price: "800.00", CustomerID: &customerID,
	}

	t.Run("Customer-scoped record wins over the general price", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := newTestService(mockRepo, now)

		mockRepo.On("CustomerPrices", ctx, productID, customerID).
			Return([]domain.PriceRecord{customerRecord}, nil).Once()

		rec, err := svc.Resolve(ctx, productID, &customerID)

		assert.NoError(t, err)
		assert.Equal(t, "800.00", rec.Price)
		mockRepo.AssertNotCalled(t, "GeneralPrices")
		mockRepo.AssertExpectations(t)
	})

	t.Run("No customer record falls back to the general price", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := newTestService(mockRepo, now)

		mockRepo.On("CustomerPrices", ctx, productID, customerID).
			Return([]domain.PriceRecord{}, nil).Once()
		mockRepo.On("GeneralPrices", ctx, productID).
			Return([]domain.PriceRecord{generalRecord}, nil).Once()

		rec, err := svc.Resolve(ctx, productID, &customerID)

		assert.NoError(t, err)
		assert.Equal(t, "1000.00", rec.Price)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Expired customer record falls back too", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := newTestService(mockRepo, now)

		expired := customerRecord
		past := now.Add(-time.Hour)
		expired.ValidUntil = &past

		mockRepo.On("CustomerPrices", ctx, productID, customerID).
			Return([]domain.PriceRecord{expired}, nil).Once()
		mockRepo.On("GeneralPrices", ctx, productID).
			Return([]domain.PriceRecord{generalRecord}, nil).Once()

		rec, err := svc.Resolve(ctx, productID, &customerID)

		assert.NoError(t, err)
		assert.Equal(t, "1000.00", rec.Price)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Anonymous viewers skip the customer lookup", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := newTestService(mockRepo, now)

		mockRepo.On("GeneralPrices", ctx, productID).
			Return([]domain.PriceRecord{generalRecord}, nil).Once()

		rec, err := svc.Resolve(ctx, productID, nil)

		assert.NoError(t, err)
		assert.Equal(t, "1000.00", rec.Price)
		mockRepo.AssertNotCalled(t, "CustomerPrices")
		mockRepo.AssertExpectations(t)
	})

	t.Run("No applicable record resolves to nil without error", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := newTestService(mockRepo, now)

		mockRepo.On("GeneralPrices", ctx, productID).
			Return([]domain.PriceRecord{}, nil).Once()

		rec, err := svc.Resolve(ctx, productID, nil)

		assert.NoError(t, err)
		assert.Nil(t, rec)
		mockRepo.AssertExpectations(t)
	})
}

func TestPricingService_SetPrice(t *testing.T) {
	ctx := context.TODO()

	t.Run("Malformed price is rejected before persistence", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := NewPricingService(mockRepo)

		rec, err := svc.SetPrice(ctx, domain.SetPriceRequest{ProductID: productID, Price: "12.345"})

		assert.ErrorIs(t, err, domain.ErrInvalidPriceFormat)
		assert.Nil(t, rec)
		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("Valid price is inserted with a generated id", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := NewPricingService(mockRepo)

		mockRepo.On("Insert", ctx, mock.AnythingOfType("*domain.PriceRecord")).
			Run(func(args mock.Arguments) {
				rec := args.Get(1).(*domain.PriceRecord)
				assert.NotEmpty(t, rec.ID)
				assert.Equal(t, productID, rec.ProductID)
				assert.Equal(t, "1234.56", rec.Price)
			}).
			Return(nil).Once()

		rec, err := svc.SetPrice(ctx, domain.SetPriceRequest{ProductID: productID, Price: "1234.56"})

		assert.NoError(t, err)
		assert.NotNil(t, rec)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Persisted price is the canonical two-decimal form", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := NewPricingService(mockRepo)

		mockRepo.On("Insert", ctx, mock.AnythingOfType("*domain.PriceRecord")).
			Run(func(args mock.Arguments) {
				rec := args.Get(1).(*domain.PriceRecord)
				assert.Equal(t, "7.00", rec.Price)
			}).
			Return(nil).Once()

		rec, err := svc.SetPrice(ctx, domain.SetPriceRequest{ProductID: productID, Price: "007"})

		assert.NoError(t, err)
		assert.Equal(t, "7.00", rec.Price)
		mockRepo.AssertExpectations(t)
	})
}

func TestPricingService_BulkSetPrices(t *testing.T) {
	ctx := context.TODO()

	t.Run("One malformed entry rejects the whole batch", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := NewPricingService(mockRepo)

		count, err := svc.BulkSetPrices(ctx, []domain.SetPriceRequest{
			{ProductID: productID, Price: "100"},
			{ProductID: productID, Price: "-5"},
		})

		assert.ErrorIs(t, err, domain.ErrInvalidPriceFormat)
		assert.Zero(t, count)
		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("All valid entries are inserted", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := NewPricingService(mockRepo)

		mockRepo.On("Insert", ctx, mock.AnythingOfType("*domain.PriceRecord")).
			Return(nil).Twice()

		count, err := svc.BulkSetPrices(ctx, []domain.SetPriceRequest{
			{ProductID: productID, Price: "100"},
			{ProductID: productID, Price: "250.50"},
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		mockRepo.AssertExpectations(t)
	})
}

func TestPricingService_UpdatePrice(t *testing.T) {
	ctx := context.TODO()

	t.Run("Supplied price must still satisfy the format", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := NewPricingService(mockRepo)

		upd := domain.PriceUpdate{}
		assert.NoError(t, upd.Price.UnmarshalJSON([]byte(`"not-a-price"`)))

		rec, err := svc.UpdatePrice(ctx, "price-1", upd)

		assert.ErrorIs(t, err, domain.ErrInvalidPriceFormat)
		assert.Nil(t, rec)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Supplied price is canonicalized before the write", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := NewPricingService(mockRepo)

		updated := &domain.PriceRecord{ID: "price-1", Price: "1234.50"}
		mockRepo.On("Update", ctx, "price-1", mock.MatchedBy(func(u domain.PriceUpdate) bool {
			return u.Price.Set && u.Price.Value == "1234.50"
		})).Return(updated, nil).Once()

		upd := domain.PriceUpdate{}
		assert.NoError(t, upd.Price.UnmarshalJSON([]byte(`"1234.5"`)))

		rec, err := svc.UpdatePrice(ctx, "price-1", upd)

		assert.NoError(t, err)
		assert.Equal(t, "1234.50", rec.Price)
		mockRepo.AssertExpectations(t)
	})
}

func TestPricingService_DeletePrice(t *testing.T) {
	ctx := context.TODO()

	t.Run("Deleting a missing record reports not-found", func(t *testing.T) {
		mockRepo := new(mocks.MockPriceRepository)
		svc := NewPricingService(mockRepo)

		mockRepo.On("Delete", ctx, "missing").Return(false, nil).Once()

		err := svc.DeletePrice(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrPriceNotFound)
		mockRepo.AssertExpectations(t)
	})
}
