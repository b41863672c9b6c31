package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grondverzet/machinery-cms/internal/catalog/domain"
	"github.com/grondverzet/machinery-cms/internal/catalog/repository"
	"github.com/grondverzet/machinery-cms/internal/catalog/service"
	"github.com/grondverzet/machinery-cms/internal/platform/cache"
	"github.com/grondverzet/machinery-cms/internal/platform/logger"
	pricingDomain "github.com/grondverzet/machinery-cms/internal/pricing/domain"
	pricingService "github.com/grondverzet/machinery-cms/internal/pricing/service"
)

// productCacheScope covers every cached read variant of the product
// collection. Writes evict by this prefix: coarse on purpose.
const productCacheScope = "/api/products"

// AdminHandler serves the CMS write routes for products and taxonomy. Every
// successful write invalidates the response cache before returning.
type AdminHandler struct {
	catalogService  service.CatalogService
	taxonomyService service.TaxonomyService
	pricingService  pricingService.PricingService
	respCache       *cache.ResponseCache
}

func NewAdminHandler(cs service.CatalogService, ts service.TaxonomyService, ps pricingService.PricingService, respCache *cache.ResponseCache) *AdminHandler {
	return &AdminHandler{
		catalogService:  cs,
		taxonomyService: ts,
		pricingService:  ps,
		respCache:       respCache,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.POST("", h.CreateProduct)
		productRoutes.PATCH("/:id", h.UpdateProduct)
		productRoutes.DELETE("/:id", h.DeleteProduct)
	}
	categoryRoutes := router.Group("/categories")
	{
		categoryRoutes.POST("", h.CreateCategory)
		categoryRoutes.PUT("/:id", h.UpdateCategory)
		categoryRoutes.DELETE("/:id", h.DeleteCategory)
	}
	subcategoryRoutes := router.Group("/subcategories")
	{
		subcategoryRoutes.GET("", h.ListSubcategories)
		subcategoryRoutes.POST("", h.CreateSubcategory)
		subcategoryRoutes.PUT("/:id", h.UpdateSubcategory)
		subcategoryRoutes.DELETE("/:id", h.DeleteSubcategory)
	}
	brandRoutes := router.Group("/brands")
	{
		brandRoutes.POST("", h.CreateBrand)
		brandRoutes.PUT("/:id", h.UpdateBrand)
		brandRoutes.DELETE("/:id", h.DeleteBrand)
	}
	cacheRoutes := router.Group("/cache")
	{
		cacheRoutes.GET("/stats", h.CacheStats)
		cacheRoutes.POST("/flush", h.FlushCache)
	}
}

// writeError maps the domain validation errors onto field-level 400s and
// not-found onto 404; anything else is a generic 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidAttachmentType),
		errors.Is(err, service.ErrInvalidWeightRange),
		errors.Is(err, service.ErrNegativeStock),
		errors.Is(err, service.ErrCategoryIDRequired),
		errors.Is(err, repository.ErrSlugConflict),
		errors.Is(err, pricingDomain.ErrInvalidPriceFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrSubcategoryNotFound),
		errors.Is(err, repository.ErrBrandNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error("admin: unexpected error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListAdmin(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	if req.Price != nil {
		_, err := h.pricingService.SetPrice(c.Request.Context(), pricingDomain.SetPriceRequest{
			ProductID: product.ID,
			Price:     *req.Price,
		})
		if err != nil {
			writeError(c, err)
			return
		}
	}

	h.respCache.Invalidate(productCacheScope)
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var upd domain.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		writeError(c, err)
		return
	}

	h.respCache.Invalidate(productCacheScope)
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	h.respCache.Invalidate(productCacheScope)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	category, err := h.taxonomyService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	// Taxonomy titles are embedded in cached product payloads, so the whole
	// API scope goes.
	h.respCache.Invalidate("/api/")
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	category, err := h.taxonomyService.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respCache.Invalidate("/api/")
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	if err := h.taxonomyService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	h.respCache.Invalidate("/api/")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}

func (h *AdminHandler) ListSubcategories(c *gin.Context) {
	subs, err := h.taxonomyService.ListSubcategories(c.Request.Context(), c.Query("category_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcategories": subs})
}

func (h *AdminHandler) CreateSubcategory(c *gin.Context) {
	var req service.SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	sub, err := h.taxonomyService.CreateSubcategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respCache.Invalidate("/api/")
	c.JSON(http.StatusCreated, gin.H{"subcategory": sub})
}

func (h *AdminHandler) UpdateSubcategory(c *gin.Context) {
	var req service.SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	sub, err := h.taxonomyService.UpdateSubcategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respCache.Invalidate("/api/")
	c.JSON(http.StatusOK, gin.H{"subcategory": sub})
}

func (h *AdminHandler) DeleteSubcategory(c *gin.Context) {
	if err := h.taxonomyService.DeleteSubcategory(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	h.respCache.Invalidate("/api/")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subcategory deleted"})
}

func (h *AdminHandler) CreateBrand(c *gin.Context) {
	var req service.BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	brand, err := h.taxonomyService.CreateBrand(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respCache.Invalidate("/api/")
	c.JSON(http.StatusCreated, gin.H{"brand": brand})
}

func (h *AdminHandler) UpdateBrand(c *gin.Context) {
	var req service.BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	brand, err := h.taxonomyService.UpdateBrand(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respCache.Invalidate("/api/")
	c.JSON(http.StatusOK, gin.H{"brand": brand})
}

func (h *AdminHandler) DeleteBrand(c *gin.Context) {
	if err := h.taxonomyService.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	h.respCache.Invalidate("/api/")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Brand deleted"})
}

func (h *AdminHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"size": h.respCache.Len(),
		"keys": h.respCache.Keys(),
	})
}

func (h *AdminHandler) FlushCache(c *gin.Context) {
	h.respCache.Flush()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cache flushed"})
}
