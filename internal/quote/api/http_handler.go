package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grondverzet/machinery-cms/internal/platform/logger"
	"github.com/grondverzet/machinery-cms/internal/quote/domain"
	"github.com/grondverzet/machinery-cms/internal/quote/repository"
	"github.com/grondverzet/machinery-cms/internal/quote/service"
)

// QuoteHandler serves the public quote submission route and the admin
// quote-management routes.
type QuoteHandler struct {
	quoteService service.QuoteService
}

func NewQuoteHandler(qs service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: qs}
}

// RegisterPublicRoutes mounts the unauthenticated submission endpoint.
func (h *QuoteHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/quotes", h.Submit)
}

// RegisterAdminRoutes mounts the protected CMS routes.
func (h *QuoteHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	quoteRoutes := router.Group("/quotes")
	{
		quoteRoutes.GET("", h.List)
		quoteRoutes.PUT("/:id", h.UpdateStatus)
		quoteRoutes.DELETE("/:id", h.Delete)
	}
}

func (h *QuoteHandler) Submit(c *gin.Context) {
	var req domain.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	quote, err := h.quoteService.Submit(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameAndEmailRequired), errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Submit: quote submission failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again later."})
		}
		return
	}

	logger.Info("new quote request %s from %s (%d cart items)",
		quote.Reference, quote.CustomerEmail, len(quote.CartItems))

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Quote request received",
		"quote_id":   quote.ID,
		"reference":  quote.Reference,
		"created_at": quote.CreatedAt,
	})
}

func (h *QuoteHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.quoteService.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		logger.Error("List: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve quotes"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *QuoteHandler) UpdateStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	quote, err := h.quoteService.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrQuoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		default:
			logger.Error("UpdateStatus: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.quoteService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		logger.Error("Delete: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
