package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"pos-service/metrics"
	"pos-service/models"
	"pos-service/orders"
	"pos-service/pricing"
)

type CheckoutHandler struct {
	builder *orders.Builder
	book    *orders.Book
}

func NewCheckoutHandler(builder *orders.Builder, book *orders.Book) *CheckoutHandler {
	return &CheckoutHandler{
		builder: builder,
		book:    book,
	}
}

// Checkout handles POST /checkout. One submission per session may be in
// flight; the cart stays editable meanwhile.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	sess := currentSession(c)
	if !sess.BeginCheckout() {
		metrics.RecordCheckout("rejected")
		respondError(c, models.ErrCheckoutInFlight)
		return
	}
	defer sess.EndCheckout()

	next := orders.NextSequence(h.book)
	order, err := h.builder.BuildOrder(c.Request.Context(), sess.Cart, req.PaymentMethod, next, next, h.book)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			metrics.RecordCheckout("rejected")
		} else {
			metrics.RecordCheckout("failed")
		}
		respondError(c, err)
		return
	}

	metrics.RecordCheckout("submitted")
	metrics.RecordSale(string(order.PaymentMethod), order.TotalAmount.InexactFloat64())

	c.JSON(http.StatusCreated, models.CheckoutResponse{
		OrderID:        order.OrderID,
		CustomerNumber: order.CustomerNumber,
		TotalAmount:    pricing.Format(order.TotalAmount),
	})
}
