package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cart-service/internal/service"
	"cart-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	cartService *service.CartService
}

// NewHandler creates a new HTTP handler
func NewHandler(cartService *service.CartService) *Handler {
	return &Handler{
		cartService: cartService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addToCart)
		v1.PUT("/cart/items/:id", h.updateQuantity)
		v1.DELETE("/cart/items/:id", h.removeFromCart)
		v1.GET("/message", h.getMessage)
	}
}

// AddItemRequest is the body for adding a product to the cart.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest is the body for setting a cart line quantity.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// listProducts returns the catalog with current stock quantities
func (h *Handler) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products": h.cartService.Products(),
	})
}

// getCart returns the cart lines, item count and total
func (h *Handler) getCart(c *gin.Context) {
	lines := h.cartService.CartLines()
	c.JSON(http.StatusOK, gin.H{
		"items": lines,
		"count": len(lines),
		"total": h.cartService.Total(),
	})
}

// addToCart handles reserving stock into the cart
func (h *Handler) addToCart(c *gin.Context) {
	var req AddItemRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.cartService.AddToCart(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		h.writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"items": h.cartService.CartLines(),
		"total": h.cartService.Total(),
	})
}

// updateQuantity handles setting a cart line to a new quantity
func (h *Handler) updateQuantity(c *gin.Context) {
	productID, ok := h.productIDParam(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.cartService.UpdateQuantity(c.Request.Context(), productID, *req.Quantity); err != nil {
		h.writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": h.cartService.CartLines(),
		"total": h.cartService.Total(),
	})
}

// removeFromCart handles returning a cart line's units to stock
func (h *Handler) removeFromCart(c *gin.Context) {
	productID, ok := h.productIDParam(c)
	if !ok {
		return
	}

	if err := h.cartService.RemoveFromCart(c.Request.Context(), productID); err != nil {
		h.writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": h.cartService.CartLines(),
		"total": h.cartService.Total(),
	})
}

// getMessage returns the currently displayed status message, if any
func (h *Handler) getMessage(c *gin.Context) {
	msg := h.cartService.ActiveMessage()
	if msg == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) productIDParam(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return productID, true
}

func (h *Handler) writeOperationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownProduct):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Operation failed",
			"details": err.Error(),
		})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
