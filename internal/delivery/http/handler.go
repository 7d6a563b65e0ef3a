package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plasticlens/backend/internal/domain"
	"github.com/plasticlens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.QueryService
	version string
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.QueryService, version string) *Handler {
	return &Handler{service: service, version: version}
}

// Query is a pointer so that ?query= (empty, matches everything) binds while
// a missing parameter fails "required".
type searchQuery struct {
	Query    *string `form:"query" binding:"required"`
	SearchBy string  `form:"search_by" binding:"omitempty,oneofci=all name tags location"`
}

type compareRequest struct {
	ProductIDs []string `json:"product_ids" binding:"required,min=1"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": "plasticlens-backend",
		"version": h.version,
	}
	if h.service != nil {
		body["records"] = h.service.Stats(c.Request.Context()).Records
	}
	c.JSON(http.StatusOK, body)
}

// SearchProducts handles GET /api/v1/products/search
func (h *Handler) SearchProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	by, err := domain.ParseSearchBy(q.SearchBy)
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, h.service.Search(c.Request.Context(), *q.Query, by))
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	id := c.Param("id")
	details, err := h.service.GetDetails(c.Request.Context(), id)
	if errors.Is(err, domain.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found: " + id})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, details)
}

// CompareProducts handles POST /api/v1/products/compare
func (h *Handler) CompareProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, h.service.Compare(c.Request.Context(), req.ProductIDs))
}

// SafestInCategory handles GET /api/v1/categories/:category/safest
func (h *Handler) SafestInCategory(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	c.JSON(http.StatusOK, h.service.FindSafestInCategory(c.Request.Context(), c.Param("category")))
}

// PackagingAnalysis handles GET /api/v1/analysis/packaging
func (h *Handler) PackagingAnalysis(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	c.JSON(http.StatusOK, h.service.AnalyzeByPackaging(c.Request.Context(), c.Query("packaging_type")))
}

// OrganicAnalysis handles GET /api/v1/analysis/organic
func (h *Handler) OrganicAnalysis(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	c.JSON(http.StatusOK, h.service.OrganicVsConventional(c.Request.Context(), c.Query("food_type")))
}

// ready answers 503 when the handler was built without a query service.
func (h *Handler) ready(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "query service not configured"})
		return false
	}
	return true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   domain.ErrInvalidRequest.Error(),
		"details": err.Error(),
	})
}
