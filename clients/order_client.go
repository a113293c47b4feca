package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"pos-service/models"
)

// orderEnvelope accepts the backend's order shape, which may carry the
// authoritative id under "id".
type orderEnvelope struct {
	models.Order
	ID int32 `json:"id"`
}

func (e orderEnvelope) order() models.Order {
	o := e.Order
	if e.ID != 0 {
		o.OrderID = e.ID
	}
	return o
}

type statusUpdate struct {
	Status models.OrderStatus `json:"status"`
}

// CreateOrder posts a new order and returns it as stored by the backend. Each
// call carries a fresh Idempotency-Key.
func (b *Backend) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	header := http.Header{}
	header.Set("Idempotency-Key", uuid.NewString())

	var created orderEnvelope
	if err := b.do(ctx, http.MethodPost, "/orders", order, &created, header); err != nil {
		return models.Order{}, &models.SubmissionError{Op: "create order", Err: err}
	}
	if created.ID == 0 && created.OrderID == 0 {
		return order, nil
	}
	return created.order(), nil
}

func (b *Backend) UpdateOrderStatus(ctx context.Context, orderID int32, status models.OrderStatus) (models.Order, error) {
	var updated orderEnvelope
	path := fmt.Sprintf("/orders/%d", orderID)
	if err := b.do(ctx, http.MethodPut, path, statusUpdate{Status: status}, &updated, nil); err != nil {
		return models.Order{}, &models.SubmissionError{Op: "update order", Err: err}
	}
	return updated.order(), nil
}

func (b *Backend) DeleteOrder(ctx context.Context, orderID int32) error {
	path := fmt.Sprintf("/orders/%d", orderID)
	if err := b.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return &models.SubmissionError{Op: "cancel order", Err: err}
	}
	return nil
}

func (b *Backend) ListOrders(ctx context.Context) ([]models.Order, error) {
	var envelopes []orderEnvelope
	if err := b.fetch(ctx, "orders", &envelopes); err != nil {
		return nil, err
	}
	orders := make([]models.Order, len(envelopes))
	for i, e := range envelopes {
		orders[i] = e.order()
	}
	return orders, nil
}
