package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopassist/backend/internal/domain"
	"github.com/shopassist/backend/internal/usecase"
	"github.com/shopassist/backend/pkg/logger"
)

const (
	serviceName    = "shopassist-backend"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog   *usecase.CatalogService
	assistant *usecase.AssistantService
	session   *usecase.SessionService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *usecase.CatalogService,
	assistant *usecase.AssistantService,
	session *usecase.SessionService,
) *Handler {
	return &Handler{
		catalog:   catalog,
		assistant: assistant,
		session:   session,
	}
}

type textRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

type cartItemRequest struct {
	ID    string `json:"id" binding:"required"`
	Delta int    `json:"delta"`
}

type toolRequest struct {
	Context string `json:"context"`
}

// HealthCheck returns the health status of the API and the catalog
func (h *Handler) HealthCheck(c *gin.Context) {
	status := h.catalog.Status()
	health := "healthy"
	if status.Degraded {
		health = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  health,
		"service": serviceName,
		"version": serviceVersion,
		"catalog": status,
	})
}

// ListProducts returns the filtered and sorted catalog
func (h *Handler) ListProducts(c *gin.Context) {
	var criteria domain.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	products := h.catalog.Products(criteria)
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// ListCategories returns the distinct catalog categories
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// ParseConstraints extracts constraints from free text without ranking
func (h *Handler) ParseConstraints(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"constraints": h.catalog.ParseConstraints(req.Text)})
}

// Shortlist ranks the catalog against free text
func (h *Handler) Shortlist(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	if req.Limit < 0 {
		respondError(c, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidRequest))
		return
	}

	cs, products := h.catalog.Shortlist(req.Text, req.Limit)
	c.JSON(http.StatusOK, gin.H{
		"constraints": cs,
		"products":    products,
	})
}

// GetCart returns the resolved session state
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// AddCartItem adjusts the quantity of a catalog product; delta defaults to 1
func (h *Handler) AddCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	if _, err := h.catalog.Find(req.ID); err != nil {
		respondError(c, err)
		return
	}
	if req.Delta == 0 {
		req.Delta = 1
	}
	h.execute(c, domain.AddToCart{ID: req.ID, Delta: req.Delta})
}

// RemoveCartItem drops a product from the cart
func (h *Handler) RemoveCartItem(c *gin.Context) {
	h.execute(c, domain.RemoveFromCart{ID: c.Param("id")})
}

// Checkout creates a mock checkout
func (h *Handler) Checkout(c *gin.Context) {
	h.execute(c, domain.Checkout{})
}

// ExportCart returns the cart export document as a download
func (h *Handler) ExportCart(c *gin.Context) {
	data, err := usecase.MarshalExport(h.session.Export())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", usecase.ExportFilename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// GetCompare returns the products selected for comparison
func (h *Handler) GetCompare(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"compare": h.session.Snapshot().Compare,
		"limit":   domain.CompareLimit,
	})
}

// ToggleCompare adds or removes a catalog product from the compare set
func (h *Handler) ToggleCompare(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.catalog.Find(id); err != nil {
		respondError(c, err)
		return
	}
	h.execute(c, domain.ToggleCompare{ID: id})
}

// ClearCompare empties the compare set
func (h *Handler) ClearCompare(c *gin.Context) {
	h.execute(c, domain.ClearCompare{})
}

// ResetSession empties cart and compare and deletes the stored session
func (h *Handler) ResetSession(c *gin.Context) {
	h.execute(c, domain.ResetSession{})
}

// Greeting returns the assistant's opening message
func (h *Handler) Greeting(c *gin.Context) {
	c.JSON(http.StatusOK, h.assistant.Greeting())
}

// Chat sends free text to the assistant, which answers with a shortlist
func (h *Handler) Chat(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	h.execute(c, domain.SendChat{Text: req.Text})
}

// RunTool invokes a named assistant tool; the body is optional
func (h *Handler) RunTool(c *gin.Context) {
	var req toolRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
			return
		}
	}
	h.execute(c, domain.RunTool{Name: c.Param("name"), Context: req.Context})
}

// AskAboutProduct points the assistant at a product
func (h *Handler) AskAboutProduct(c *gin.Context) {
	h.execute(c, domain.AskAbout{ID: c.Param("id")})
}

func (h *Handler) execute(c *gin.Context, cmd domain.Command) {
	result, err := h.session.Execute(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrUnknownTool):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCompareLimitExceeded), errors.Is(err, domain.ErrCartEmpty):
		status = http.StatusConflict
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log := logger.Component("http")
		log.Error().
			Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("request failed")
		msg = "internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
