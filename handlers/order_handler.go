package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pos-service/metrics"
	"pos-service/models"
	"pos-service/orders"
)

type OrderHandler struct {
	builder *orders.Builder
	book    *orders.Book
}

func NewOrderHandler(builder *orders.Builder, book *orders.Book) *OrderHandler {
	return &OrderHandler{
		builder: builder,
		book:    book,
	}
}

// ListOrders handles GET /orders?status=pending|completed
func (h *OrderHandler) ListOrders(c *gin.Context) {
	switch strings.ToLower(c.Query("status")) {
	case "":
		c.JSON(http.StatusOK, h.book.List())
	case "pending":
		c.JSON(http.StatusOK, h.book.Pending())
	case "completed":
		c.JSON(http.StatusOK, h.book.Completed())
	default:
		badRequest(c, "Invalid status filter", nil)
	}
}

// RefreshOrders handles POST /orders/refresh. On failure the previous list
// stays in place.
func (h *OrderHandler) RefreshOrders(c *gin.Context) {
	if err := h.book.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.book.List())
}

func orderID(c *gin.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("orderId"), 10, 32)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid order ID",
			Details: "Order ID must be a positive integer",
		})
		return 0, false
	}
	return int32(id), true
}

// ProcessOrder handles POST /orders/:orderId/process
func (h *OrderHandler) ProcessOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.builder.ProcessOrder(c.Request.Context(), id, h.book)
	if err != nil {
		metrics.RecordTransition("process", "error")
		respondError(c, err)
		return
	}
	metrics.RecordTransition("process", "ok")
	c.JSON(http.StatusOK, models.ProcessOrderResponse{Order: order})
}

// CancelOrder handles POST /orders/:orderId/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req models.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.builder.CancelOrder(c.Request.Context(), id, req.AdminPIN, h.book); err != nil {
		metrics.RecordTransition("cancel", "error")
		respondError(c, err)
		return
	}
	metrics.RecordTransition("cancel", "ok")
	c.Status(http.StatusNoContent)
}
