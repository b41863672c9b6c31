package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogRepo "github.com/grondverzet/machinery-cms/internal/catalog/repository"
	catalogService "github.com/grondverzet/machinery-cms/internal/catalog/service"
	"github.com/grondverzet/machinery-cms/internal/platform/cache"
	"github.com/grondverzet/machinery-cms/internal/platform/logger"
	"github.com/grondverzet/machinery-cms/internal/pricing/domain"
	"github.com/grondverzet/machinery-cms/internal/pricing/repository"
	"github.com/grondverzet/machinery-cms/internal/pricing/service"
)

const productCacheScope = "/api/products"

// AdminPriceHandler serves the CMS price-management routes.
type AdminPriceHandler struct {
	catalogService catalogService.CatalogService
	pricingService service.PricingService
	respCache      *cache.ResponseCache
}

func NewAdminPriceHandler(cs catalogService.CatalogService, ps service.PricingService, respCache *cache.ResponseCache) *AdminPriceHandler {
	return &AdminPriceHandler{catalogService: cs, pricingService: ps, respCache: respCache}
}

func (h *AdminPriceHandler) RegisterRoutes(router *gin.RouterGroup) {
	priceRoutes := router.Group("/prices")
	{
		priceRoutes.GET("/:productId", h.History)
		priceRoutes.POST("", h.SetPrice)
		priceRoutes.POST("/bulk", h.BulkSetPrices)
		priceRoutes.PATCH("/:id", h.UpdatePrice)
		priceRoutes.DELETE("/:id", h.DeletePrice)
	}
}

func (h *AdminPriceHandler) History(c *gin.Context) {
	prices, err := h.pricingService.History(c.Request.Context(), c.Param("productId"))
	if err != nil {
		logger.Error("History: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve price history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

func (h *AdminPriceHandler) SetPrice(c *gin.Context) {
	var req domain.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}
	if req.Price == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price is required"})
		return
	}

	if _, err := h.catalogService.GetProduct(c.Request.Context(), req.ProductID); err != nil {
		if errors.Is(err, catalogRepo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("SetPrice: product lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set price"})
		return
	}

	record, err := h.pricingService.SetPrice(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respCache.Invalidate(productCacheScope)
	c.JSON(http.StatusCreated, gin.H{"price": record})
}

func (h *AdminPriceHandler) BulkSetPrices(c *gin.Context) {
	var payload struct {
		Prices []domain.SetPriceRequest `json:"prices"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if len(payload.Prices) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prices array is required"})
		return
	}
	for _, p := range payload.Prices {
		if p.ProductID == "" || p.Price == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each price entry must have product_id and price"})
			return
		}
	}

	count, err := h.pricingService.BulkSetPrices(c.Request.Context(), payload.Prices)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respCache.Invalidate(productCacheScope)
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func (h *AdminPriceHandler) UpdatePrice(c *gin.Context) {
	var upd domain.PriceUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	record, err := h.pricingService.UpdatePrice(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respCache.Invalidate(productCacheScope)
	c.JSON(http.StatusOK, gin.H{"price": record})
}

func (h *AdminPriceHandler) DeletePrice(c *gin.Context) {
	if err := h.pricingService.DeletePrice(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	h.respCache.Invalidate(productCacheScope)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Price deleted"})
}

func (h *AdminPriceHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPriceFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrPriceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Price record not found"})
	default:
		logger.Error("admin prices: unexpected error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
