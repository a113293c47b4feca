package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-service/models"
)

func order(id int32, status models.OrderStatus, method models.PaymentMethod, total string, date time.Time, items ...models.OrderItem) models.Order {
	return models.Order{
		OrderID:       id,
		Status:        status,
		PaymentMethod: method,
		TotalAmount:   decimal.RequireFromString(total),
		Date:          date,
		Items:         items,
	}
}

func TestSummarize(t *testing.T) {
	aug := time.Date(2025, 8, 31, 23, 0, 0, 0, time.UTC)
	sep := time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		order(1, models.StatusCompleted, models.PaymentCash, "250.00", aug,
			models.OrderItem{ProductName: "Latte", Qty: 2}),
		order(2, models.StatusPending, models.PaymentGCash, "100.50", sep,
			models.OrderItem{ProductName: "Muffin", Qty: 3},
			models.OrderItem{ProductName: "Latte", Qty: 1}),
		order(3, models.StatusCompleted, models.PaymentCash, "49.50", sep,
			models.OrderItem{ProductName: "Americano", Qty: 3}),
	}

	summary := Summarize(orders)

	assert.Equal(t, 3, summary.TotalOrders)
	assert.Equal(t, "400.00", summary.TotalSales)
	assert.Equal(t, 2, summary.OrdersByStatus[models.StatusCompleted])
	assert.Equal(t, 1, summary.OrdersByStatus[models.StatusPending])
	assert.Equal(t, "299.50", summary.SalesByPayment[models.PaymentCash])
	assert.Equal(t, "100.50", summary.SalesByPayment[models.PaymentGCash])
	assert.Equal(t, []MonthlySales{
		{Month: "2025-08", Total: "250.00"},
		{Month: "2025-09", Total: "150.00"},
	}, summary.SalesByMonth)

	require.Len(t, summary.TopProducts, 3)
	assert.Equal(t, ProductQuantity{ProductName: "Americano", Quantity: 3}, summary.TopProducts[0])
	assert.Equal(t, ProductQuantity{ProductName: "Latte", Quantity: 3}, summary.TopProducts[1])
	assert.Equal(t, ProductQuantity{ProductName: "Muffin", Quantity: 3}, summary.TopProducts[2])
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.TotalOrders)
	assert.Equal(t, "0.00", summary.TotalSales)
	assert.Equal(t, 0, summary.OrdersByStatus[models.StatusPending])
	assert.Empty(t, summary.SalesByPayment)
	assert.Empty(t, summary.TopProducts)
	assert.Empty(t, summary.SalesByMonth)
}

func TestTopProductsLimit(t *testing.T) {
	quantities := map[string]int64{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5, "f": 6}

	top := topProducts(quantities, 5)

	require.Len(t, top, 5)
	assert.Equal(t, "f", top[0].ProductName)
	assert.Equal(t, "b", top[4].ProductName)
}
