package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grondverzet/machinery-cms/internal/catalog/repository"
	"github.com/grondverzet/machinery-cms/internal/catalog/service"
	"github.com/grondverzet/machinery-cms/internal/platform/cache"
	"github.com/grondverzet/machinery-cms/internal/platform/logger"
)

// TaxonomyHandler serves the public category/subcategory/brand routes.
type TaxonomyHandler struct {
	taxonomyService service.TaxonomyService
}

func NewTaxonomyHandler(ts service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: ts}
}

func (h *TaxonomyHandler) RegisterRoutes(router *gin.RouterGroup, respCache *cache.ResponseCache) {
	categoryRoutes := router.Group("/categories")
	{
		categoryRoutes.GET("", respCache.Middleware(0), h.ListCategories)
		categoryRoutes.GET("/:slug", respCache.Middleware(0), h.GetCategory)
	}
	brandRoutes := router.Group("/brands")
	{
		brandRoutes.GET("", respCache.Middleware(0), h.ListBrands)
		brandRoutes.GET("/:slug", respCache.Middleware(0), h.GetBrand)
	}
}

func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.taxonomyService.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error("ListCategories: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *TaxonomyHandler) GetCategory(c *gin.Context) {
	detail, err := h.taxonomyService.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		logger.Error("GetCategory: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": detail})
}

func (h *TaxonomyHandler) ListBrands(c *gin.Context) {
	brands, err := h.taxonomyService.ListBrands(c.Request.Context())
	if err != nil {
		logger.Error("ListBrands: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve brands"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

func (h *TaxonomyHandler) GetBrand(c *gin.Context) {
	brand, err := h.taxonomyService.GetBrand(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
			return
		}
		logger.Error("GetBrand: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve brand"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"brand": brand})
}
