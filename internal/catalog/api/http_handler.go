package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grondverzet/machinery-cms/internal/catalog/domain"
	"github.com/grondverzet/machinery-cms/internal/catalog/repository"
	"github.com/grondverzet/machinery-cms/internal/catalog/service"
	"github.com/grondverzet/machinery-cms/internal/platform/cache"
	"github.com/grondverzet/machinery-cms/internal/platform/logger"
)

// ProductHandler serves the public storefront product routes.
type ProductHandler struct {
	catalogService service.CatalogService
}

func NewProductHandler(cs service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: cs}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, respCache *cache.ResponseCache) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", respCache.Middleware(0), h.ListProducts)
		productRoutes.GET("/filters", respCache.Middleware(0), h.FilterOptions)
		productRoutes.GET("/featured", respCache.Middleware(0), h.Featured)
		productRoutes.GET("/:id", respCache.Middleware(0), h.GetProduct)
	}
}

// parseFilterCriteria is deliberately lenient: unparseable numbers are
// dropped and unknown enumerated values pass through (they match nothing).
// Strict validation belongs to the admin write path only.
func parseFilterCriteria(c *gin.Context) domain.FilterCriteria {
	f := domain.FilterCriteria{
		CategorySlug:    c.Query("category"),
		CategoryID:      c.Query("category_id"),
		SubcategorySlug: c.Query("subcategory"),
		SubcategoryID:   c.Query("subcategory_id"),
		BrandSlug:       c.Query("brand"),
		BrandID:         c.Query("brand_id"),
		AttachmentType:  c.Query("attachment_type"),
		Search:          c.Query("search"),
		Sort:            c.Query("sort"),
		FeaturedOnly:    c.Query("featured") == "true",
	}

	f.ExcavatorWeight = intQuery(c, "excavator_weight")
	f.VolumeMin = intQuery(c, "volume_min")
	f.VolumeMax = intQuery(c, "volume_max")
	f.Width = intQuery(c, "width")

	if limit := intQuery(c, "limit"); limit != nil {
		f.Limit = *limit
	}
	if offset := intQuery(c, "offset"); offset != nil {
		f.Offset = *offset
	}
	return f
}

func intQuery(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, err := h.catalogService.ListProducts(c.Request.Context(), parseFilterCriteria(c))
	if err != nil {
		logger.Error("ListProducts: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) FilterOptions(c *gin.Context) {
	opts, err := h.catalogService.FilterOptions(c.Request.Context())
	if err != nil {
		logger.Error("FilterOptions: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve filter options"})
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *ProductHandler) Featured(c *gin.Context) {
	limit := 0
	if l := intQuery(c, "limit"); l != nil {
		limit = *l
	}
	products, err := h.catalogService.FeaturedProducts(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Featured: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve featured products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("GetProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}
