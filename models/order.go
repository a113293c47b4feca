package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentGCash  PaymentMethod = "gcash"
	PaymentCredit PaymentMethod = "credit"
)

// ParsePaymentMethod accepts the three supported methods, ignoring case and
// surrounding whitespace.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentCash, PaymentGCash, PaymentCredit:
		return m, true
	default:
		return "", false
	}
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCompleted OrderStatus = "Completed"
)

type OrderItem struct {
	ProductName string          `json:"productName"`
	Size        string          `json:"size"`
	Qty         int32           `json:"qty"`
	Addons      []Addon         `json:"addons"`
	Price       decimal.Decimal `json:"price"`
}

// Order is immutable once submitted apart from the Pending to Completed
// transition.
type Order struct {
	OrderID        int32           `json:"orderID"`
	CustomerNumber int32           `json:"customerNumber"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	Status         OrderStatus     `json:"status"`
	Date           time.Time       `json:"date"`
	Items          []OrderItem     `json:"items"`
}

func (o Order) Clone() Order {
	c := o
	c.Items = make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		c.Items[i] = item
		if item.Addons != nil {
			c.Items[i].Addons = append([]Addon{}, item.Addons...)
		}
	}
	return c
}

// OrderEvent is published to the order events queue.
type OrderEvent struct {
	Type       string      `json:"type"`
	OrderID    int32       `json:"orderID"`
	Status     OrderStatus `json:"status,omitempty"`
	Total      string      `json:"totalAmount,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

const (
	EventOrderCreated   = "order.created"
	EventOrderCompleted = "order.completed"
	EventOrderCancelled = "order.cancelled"
)

type ProcessOrderResponse struct {
	Order Order `json:"order"`
}

type CancelOrderRequest struct {
	AdminPIN string `json:"adminPin" binding:"required"`
}
