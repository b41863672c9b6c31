package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	catalogDomain "github.com/grondverzet/machinery-cms/internal/catalog/domain"
	catalogRepo "github.com/grondverzet/machinery-cms/internal/catalog/repository"
	catalogMocks "github.com/grondverzet/machinery-cms/internal/catalog/repository/mocks"
	catalogService "github.com/grondverzet/machinery-cms/internal/catalog/service"
	"github.com/grondverzet/machinery-cms/internal/platform/cache"
	"github.com/grondverzet/machinery-cms/internal/pricing/repository/mocks"
	"github.com/grondverzet/machinery-cms/internal/pricing/service"
)

const productID = "7f0b6f9e-4a9a-4a0e-8d3c-4242aaaa4242"

// TestPriceWritesEvictProductCache verifies that a successful price write
// evicts cached product reads, since price fields ride along in product
// payloads.
func TestPriceWritesEvictProductCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newStack := func(productRepo *catalogMocks.MockProductRepository, priceRepo *mocks.MockPriceRepository) (*gin.Engine, *cache.ResponseCache) {
		respCache := cache.New(time.Minute, time.Minute)
		t.Cleanup(respCache.Stop)

		handler := NewAdminPriceHandler(
			catalogService.NewCatalogService(productRepo),
			service.NewPricingService(priceRepo),
			respCache,
		)

		router := gin.New()
		adminGroup := router.Group("/api/admin")
		handler.RegisterRoutes(adminGroup)
		return router, respCache
	}

	t.Run("Setting a price evicts cached product reads", func(t *testing.T) {
		productRepo := new(catalogMocks.MockProductRepository)
		priceRepo := new(mocks.MockPriceRepository)
		router, respCache := newStack(productRepo, priceRepo)

		respCache.Set("/api/products", []byte(`{"products":[]}`), "application/json", time.Minute)
		respCache.Set("/api/products/"+productID, []byte(`{"product":{}}`), "application/json", time.Minute)

		productRepo.On("GetByID", mock.Anything, productID).
			Return(&catalogDomain.Product{ID: productID, Title: "Slotenbak 120cm"}, nil).Once()
		priceRepo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.PriceRecord")).
			Return(nil).Once()

		body := strings.NewReader(`{"product_id":"` + productID + `","price":"1234.50"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/prices", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 0, respCache.Len())
		productRepo.AssertExpectations(t)
		priceRepo.AssertExpectations(t)
	})

	t.Run("A rejected price leaves the cache intact", func(t *testing.T) {
		productRepo := new(catalogMocks.MockProductRepository)
		priceRepo := new(mocks.MockPriceRepository)
		router, respCache := newStack(productRepo, priceRepo)

		respCache.Set("/api/products", []byte(`{"products":[]}`), "application/json", time.Minute)

		productRepo.On("GetByID", mock.Anything, productID).
			Return(&catalogDomain.Product{ID: productID}, nil).Once()

		body := strings.NewReader(`{"product_id":"` + productID + `","price":"12.345"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/prices", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 1, respCache.Len())
		priceRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("Unknown products are rejected without touching the cache", func(t *testing.T) {
		productRepo := new(catalogMocks.MockProductRepository)
		priceRepo := new(mocks.MockPriceRepository)
		router, respCache := newStack(productRepo, priceRepo)

		respCache.Set("/api/products", []byte(`{"products":[]}`), "application/json", time.Minute)

		productRepo.On("GetByID", mock.Anything, productID).
			Return(nil, catalogRepo.ErrProductNotFound).Once()

		body := strings.NewReader(`{"product_id":"` + productID + `","price":"100"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/prices", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, 1, respCache.Len())
		priceRepo.AssertNotCalled(t, "Insert")
	})
}
