package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartscout/backend/internal/domain"
)

// ComparisonRunner is the slice of the comparison service the handlers need.
type ComparisonRunner interface {
	Compare(ctx context.Context, product domain.RequestedProduct) (*domain.ComparisonResult, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	comparisons ComparisonRunner
	history     domain.HistoryStore
}

// NewHandler creates a new HTTP handler.
func NewHandler(comparisons ComparisonRunner, history domain.HistoryStore) *Handler {
	return &Handler{comparisons: comparisons, history: history}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartscout-backend",
		"version": "1.0.0",
	})
}

// compareRequest is the body of a comparison call.
type compareRequest struct {
	Name        string   `json:"name" binding:"required"`
	Brand       string   `json:"brand"`
	Size        string   `json:"size"`
	Unit        string   `json:"unit"`
	Category    string   `json:"category"`
	SearchTerms []string `json:"searchTerms"`
}

// CompareProduct runs a price comparison for the requested product.
func (h *Handler) CompareProduct(c *gin.Context) {
	if h.comparisons == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "comparison service not available"})
		return
	}

	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	searchTerms := req.SearchTerms
	if searchTerms == nil {
		searchTerms = []string{}
	}

	product := domain.RequestedProduct{
		Name:        req.Name,
		Brand:       req.Brand,
		Size:        req.Size,
		Unit:        req.Unit,
		Category:    req.Category,
		SearchTerms: searchTerms,
	}

	result, err := h.comparisons.Compare(c.Request.Context(), product)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidProduct) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comparison failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHistory returns the full ledger snapshot in the export format.
func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history store not available"})
		return
	}

	records := h.history.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}
