package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogRepo "github.com/grondverzet/machinery-cms/internal/catalog/repository"
	catalogService "github.com/grondverzet/machinery-cms/internal/catalog/service"
	"github.com/grondverzet/machinery-cms/internal/httpx"
	"github.com/grondverzet/machinery-cms/internal/platform/logger"
	"github.com/grondverzet/machinery-cms/internal/pricing/service"
)

// PriceHandler serves the authenticated storefront price endpoint. The
// response is viewer-specific, so it is never routed through the response
// cache.
type PriceHandler struct {
	catalogService catalogService.CatalogService
	pricingService service.PricingService
}

func NewPriceHandler(cs catalogService.CatalogService, ps service.PricingService) *PriceHandler {
	return &PriceHandler{catalogService: cs, pricingService: ps}
}

func (h *PriceHandler) RegisterRoutes(router *gin.RouterGroup, authenticate gin.HandlerFunc) {
	router.GET("/products/:id/price", authenticate, h.GetPrice)
}

func (h *PriceHandler) GetPrice(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("GetPrice: product lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve price"})
		return
	}

	record, err := h.pricingService.Resolve(c.Request.Context(), product.ID, httpx.UserID(c))
	if err != nil {
		logger.Error("GetPrice: resolve failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve price"})
		return
	}

	// No applicable record is a normal outcome, not an error: the
	// storefront renders a "contact us" state.
	if record == nil {
		c.JSON(http.StatusOK, gin.H{
			"product_id": product.ID,
			"price":      nil,
			"message":    "Price not available. Contact us for a quote.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":     product.ID,
		"price":          record.Price,
		"valid_until":    record.ValidUntil,
		"stock_quantity": product.StockQuantity,
		"in_stock":       product.StockQuantity > 0,
	})
}
