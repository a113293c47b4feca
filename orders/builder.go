// Package orders turns a cart into a submitted order and drives the order
// lifecycle afterwards.
package orders

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"pos-service/cart"
	"pos-service/models"
	"pos-service/pricing"
)

// DefaultSize is recorded for lines that carry no size.
const DefaultSize = "Regular"

// OrderService is the write side of the external order service.
type OrderService interface {
	OrderLister
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int32, status models.OrderStatus) (models.Order, error)
	DeleteOrder(ctx context.Context, orderID int32) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

type Builder struct {
	orders    OrderService
	publisher EventPublisher
	adminPIN  string
	now       func() time.Time
}

// NewBuilder returns a Builder. publisher may be nil.
func NewBuilder(orders OrderService, publisher EventPublisher, adminPIN string) *Builder {
	return &Builder{
		orders:    orders,
		publisher: publisher,
		adminPIN:  adminPIN,
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// NextSequence is the provisional order id and customer number for the next
// order: one past the number of orders currently known.
func NextSequence(book *Book) int32 {
	return int32(book.Len() + 1)
}

// DraftOrder builds the order record for lines without any validation or I/O.
func DraftOrder(lines []models.CartLine, method models.PaymentMethod, orderID, customerNumber int32, now time.Time) models.Order {
	items := make([]models.OrderItem, len(lines))
	for i, line := range lines {
		size := line.Size
		if size == "" {
			size = DefaultSize
		}
		addons := append([]models.Addon{}, line.Addons...)
		items[i] = models.OrderItem{
			ProductName: line.ProductName,
			Size:        size,
			Qty:         line.Quantity,
			Addons:      addons,
			Price:       line.UnitPrice,
		}
	}

	return models.Order{
		OrderID:        orderID,
		CustomerNumber: customerNumber,
		TotalAmount:    pricing.CartTotal(lines),
		PaymentMethod:  method,
		Status:         models.StatusPending,
		Date:           now.UTC(),
		Items:          items,
	}
}

// BuildOrder validates the cart and payment method, submits the order and, on
// success, settles the cart and appends the order to book. Validation happens
// before any network call. A failed submission leaves cart and book untouched.
func (b *Builder) BuildOrder(ctx context.Context, c *cart.Cart, paymentMethod string, nextOrderID, customerNumber int32, book *Book) (models.Order, error) {
	lines, revision := c.Snapshot()
	if len(lines) == 0 {
		return models.Order{}, models.NewValidationError("cart empty")
	}
	method, ok := models.ParsePaymentMethod(paymentMethod)
	if !ok {
		return models.Order{}, models.NewValidationError("payment method required")
	}

	order := DraftOrder(lines, method, nextOrderID, customerNumber, b.now())

	created, err := b.orders.CreateOrder(ctx, order)
	if err != nil {
		return models.Order{}, asSubmissionError("create order", err)
	}
	if created.OrderID != 0 && created.OrderID != order.OrderID {
		log.WithFields(log.Fields{
			"provisional_id": order.OrderID,
			"order_id":       created.OrderID,
		}).Info("reconciled order id with order service")
		order.OrderID = created.OrderID
	}

	c.Settle(lines, revision)
	book.Append(order)

	log.WithFields(log.Fields{
		"order_id":       order.OrderID,
		"total":          pricing.Format(order.TotalAmount),
		"payment_method": order.PaymentMethod,
		"items":          len(order.Items),
	}).Info("order submitted")

	b.publish(ctx, models.OrderEvent{
		Type:       models.EventOrderCreated,
		OrderID:    order.OrderID,
		Status:     order.Status,
		Total:      pricing.Format(order.TotalAmount),
		OccurredAt: order.Date,
	})
	return order, nil
}

// ProcessOrder moves a pending order to Completed. The local transition is
// applied only after the order service acknowledges it.
func (b *Builder) ProcessOrder(ctx context.Context, orderID int32, book *Book) (models.Order, error) {
	order, ok := book.Get(orderID)
	if !ok {
		return models.Order{}, models.ErrOrderNotFound
	}
	if order.Status == models.StatusCompleted {
		return models.Order{}, models.NewValidationError("order already completed")
	}

	if _, err := b.orders.UpdateOrderStatus(ctx, orderID, models.StatusCompleted); err != nil {
		return models.Order{}, asSubmissionError("update order", err)
	}

	order.Status = models.StatusCompleted
	order.Date = b.now().UTC()
	book.Replace(order)

	log.WithField("order_id", orderID).Info("order completed")
	b.publish(ctx, models.OrderEvent{
		Type:       models.EventOrderCompleted,
		OrderID:    orderID,
		Status:     order.Status,
		OccurredAt: order.Date,
	})
	return order, nil
}

// CancelOrder deletes an order after checking the admin PIN. A wrong PIN
// returns ErrInvalidPIN without touching anything.
func (b *Builder) CancelOrder(ctx context.Context, orderID int32, pin string, book *Book) error {
	if !b.checkPIN(pin) {
		log.WithField("order_id", orderID).Warn("order cancel rejected: invalid PIN")
		return models.ErrInvalidPIN
	}
	if _, ok := book.Get(orderID); !ok {
		return models.ErrOrderNotFound
	}

	if err := b.orders.DeleteOrder(ctx, orderID); err != nil {
		return asSubmissionError("cancel order", err)
	}
	book.Remove(orderID)

	log.WithField("order_id", orderID).Info("order cancelled")
	b.publish(ctx, models.OrderEvent{
		Type:       models.EventOrderCancelled,
		OrderID:    orderID,
		OccurredAt: b.now().UTC(),
	})
	return nil
}

func (b *Builder) checkPIN(pin string) bool {
	if b.adminPIN == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pin), []byte(b.adminPIN)) == 1
}

// publish is best effort: the order is already stored by the time it runs.
func (b *Builder) publish(ctx context.Context, event models.OrderEvent) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.WithError(err).WithField("event", event.Type).Warn("failed to publish order event")
	}
}

func asSubmissionError(op string, err error) error {
	var subErr *models.SubmissionError
	if errors.As(err, &subErr) {
		return err
	}
	return &models.SubmissionError{Op: op, Err: err}
}
