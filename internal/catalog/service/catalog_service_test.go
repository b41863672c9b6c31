package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/grondverzet/machinery-cms/internal/catalog/domain"
	"github.com/grondverzet/machinery-cms/internal/catalog/repository"
	"github.com/grondverzet/machinery-cms/internal/catalog/repository/mocks"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestCatalogService_ListProducts(t *testing.T) {
	ctx := context.TODO()
	mockProducts := []domain.Product{
		{ID: "a7f43f9b-9f93-4b2c-8c2e-111111111111", Title: "Slotenbak 120cm", Slug: "slotenbak-120cm"},
		{ID: "a7f43f9b-9f93-4b2c-8c2e-222222222222", Title: "Dieplepelbak 60cm", Slug: "dieplepelbak-60cm"},
	}

	t.Run("Page and total come from the same criteria", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)
		f := domain.FilterCriteria{CategorySlug: "graafbakken", Limit: 24}

		mockRepo.On("List", ctx, f).Return(mockProducts, nil).Once()
		mockRepo.On("Count", ctx, f).Return(57, nil).Once()

		page, err := svc.ListProducts(ctx, f)

		assert.NoError(t, err)
		assert.Equal(t, mockProducts, page.Products)
		assert.Equal(t, 57, page.Total)
		assert.Equal(t, 24, page.Limit)
		assert.Equal(t, 0, page.Offset)
		mockRepo.AssertExpectations(t)
	})

	t.Run("List error wins over a successful count", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)
		f := domain.FilterCriteria{}

		mockRepo.On("List", ctx, f).Return(nil, errors.New("db error")).Once()
		mockRepo.On("Count", ctx, f).Return(0, nil).Once()

		page, err := svc.ListProducts(ctx, f)

		assert.Error(t, err)
		assert.Nil(t, page)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Count error also fails the request", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)
		f := domain.FilterCriteria{}

		mockRepo.On("List", ctx, f).Return(mockProducts, nil).Once()
		mockRepo.On("Count", ctx, f).Return(0, errors.New("db error")).Once()

		page, err := svc.ListProducts(ctx, f)

		assert.Error(t, err)
		assert.Nil(t, page)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_GetProduct(t *testing.T) {
	ctx := context.TODO()
	product := &domain.Product{ID: "7f0b6f9e-4a9a-4a0e-8d3c-4242aaaa4242", Slug: "slotenbak-120cm"}

	t.Run("UUID goes to the id lookup", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		mockRepo.On("GetByID", ctx, product.ID).Return(product, nil).Once()

		got, err := svc.GetProduct(ctx, product.ID)

		assert.NoError(t, err)
		assert.Equal(t, product, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Anything else is treated as a slug", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		mockRepo.On("GetBySlug", ctx, "slotenbak-120cm").Return(product, nil).Once()

		got, err := svc.GetProduct(ctx, "slotenbak-120cm")

		assert.NoError(t, err)
		assert.Equal(t, product, got)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_FeaturedProducts(t *testing.T) {
	ctx := context.TODO()

	t.Run("Zero limit falls back to the default", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		expected := domain.FilterCriteria{FeaturedOnly: true, Limit: 6}
		mockRepo.On("List", ctx, expected).Return([]domain.Product{}, nil).Once()

		_, err := svc.FeaturedProducts(ctx, 0)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_CreateProduct(t *testing.T) {
	ctx := context.TODO()

	t.Run("Title is required", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{Title: "   "})

		assert.ErrorIs(t, err, ErrTitleRequired)
		assert.Nil(t, product)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Unknown attachment type is rejected on write", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
			Title:          "Slotenbak",
			AttachmentType: strPtr("CW99"),
		})

		assert.ErrorIs(t, err, ErrInvalidAttachmentType)
		assert.Nil(t, product)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Inverted weight range is rejected", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
			Title:              "Slotenbak",
			ExcavatorWeightMin: intPtr(20),
			ExcavatorWeightMax: intPtr(10),
		})

		assert.ErrorIs(t, err, ErrInvalidWeightRange)
		assert.Nil(t, product)
	})

	t.Run("Negative stock is rejected", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
			Title:         "Slotenbak",
			StockQuantity: intPtr(-1),
		})

		assert.ErrorIs(t, err, ErrNegativeStock)
		assert.Nil(t, product)
	})

	t.Run("Existing slug conflicts", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		mockRepo.On("GetBySlug", ctx, "slotenbak").
			Return(&domain.Product{ID: "existing", Slug: "slotenbak"}, nil).Once()

		product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{Title: "Slotenbak"})

		assert.ErrorIs(t, err, repository.ErrSlugConflict)
		assert.Nil(t, product)
		mockRepo.AssertNotCalled(t, "Create")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Successful create derives the slug and defaults active", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		mockRepo.On("GetBySlug", ctx, "slotenbak-120-cm").
			Return(nil, repository.ErrProductNotFound).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).
			Run(func(args mock.Arguments) {
				p := args.Get(1).(*domain.Product)
				assert.Equal(t, "slotenbak-120-cm", p.Slug)
				assert.True(t, p.IsActive)
				assert.False(t, p.IsFeatured)
				assert.NotEmpty(t, p.ID)
			}).
			Return(nil).Once()
		mockRepo.On("GetByID", ctx, mock.AnythingOfType("string")).
			Return(&domain.Product{Title: "Slotenbak 120 cm", Slug: "slotenbak-120-cm"}, nil).Once()

		product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{Title: "Slotenbak 120 cm"})

		assert.NoError(t, err)
		assert.NotNil(t, product)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	ctx := context.TODO()
	existing := &domain.Product{
		ID:                 "7f0b6f9e-4a9a-4a0e-8d3c-4242aaaa4242",
		Title:              "Slotenbak",
		Slug:               "slotenbak",
		ExcavatorWeightMin: intPtr(10),
		ExcavatorWeightMax: intPtr(20),
	}

	t.Run("Weight invariant holds against the merged record", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		mockRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()

		// Only min is supplied, but it crosses the existing max.
		upd := domain.ProductUpdate{ExcavatorWeightMin: domain.Some(intPtr(25))}
		product, err := svc.UpdateProduct(ctx, existing.ID, upd)

		assert.ErrorIs(t, err, ErrInvalidWeightRange)
		assert.Nil(t, product)
		mockRepo.AssertNotCalled(t, "Update")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unchanged slug skips the conflict check", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		upd := domain.ProductUpdate{Slug: domain.Some("slotenbak")}
		mockRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, existing.ID, upd).Return(existing, nil).Once()

		product, err := svc.UpdateProduct(ctx, existing.ID, upd)

		assert.NoError(t, err)
		assert.NotNil(t, product)
		mockRepo.AssertNotCalled(t, "GetBySlug")
		mockRepo.AssertExpectations(t)
	})

	t.Run("New slug colliding with another product conflicts", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		mockRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()
		mockRepo.On("GetBySlug", ctx, "dieplepelbak").
			Return(&domain.Product{ID: "other", Slug: "dieplepelbak"}, nil).Once()

		upd := domain.ProductUpdate{Slug: domain.Some("dieplepelbak")}
		product, err := svc.UpdateProduct(ctx, existing.ID, upd)

		assert.ErrorIs(t, err, repository.ErrSlugConflict)
		assert.Nil(t, product)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	ctx := context.TODO()

	t.Run("Deleting a missing product reports not-found", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(mockRepo)

		mockRepo.On("Delete", ctx, "missing").Return(false, nil).Once()

		err := svc.DeleteProduct(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrProductNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Slotenbak 120cm", "slotenbak-120cm"},
		{"CW40 Snelwissel", "cw40-snelwissel"},
		{"  Dieplepelbak / 60 cm  ", "dieplepelbak-60-cm"},
		{"Sorteergrijper (hydraulisch)", "sorteergrijper-hydraulisch"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in))
	}
}
