// Package reports aggregates the order book for the dashboard.
package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"pos-service/models"
	"pos-service/pricing"
)

const topProductsLimit = 5

type ProductQuantity struct {
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
}

type MonthlySales struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

// Summary is the dashboard view over a set of orders. Amounts are formatted
// with two decimals.
type Summary struct {
	TotalOrders    int                             `json:"totalOrders"`
	TotalSales     string                          `json:"totalSales"`
	OrdersByStatus map[models.OrderStatus]int      `json:"ordersByStatus"`
	SalesByPayment map[models.PaymentMethod]string `json:"salesByPayment"`
	TopProducts    []ProductQuantity               `json:"topProducts"`
	SalesByMonth   []MonthlySales                  `json:"salesByMonth"`
}

// Summarize counts both pending and completed orders.
func Summarize(orders []models.Order) Summary {
	total := decimal.Zero
	byStatus := map[models.OrderStatus]int{
		models.StatusPending:   0,
		models.StatusCompleted: 0,
	}
	byPayment := make(map[models.PaymentMethod]decimal.Decimal)
	byMonth := make(map[string]decimal.Decimal)
	quantities := make(map[string]int64)

	for _, order := range orders {
		total = total.Add(order.TotalAmount)
		byStatus[order.Status]++
		byPayment[order.PaymentMethod] = byPayment[order.PaymentMethod].Add(order.TotalAmount)

		month := order.Date.UTC().Format("2006-01")
		byMonth[month] = byMonth[month].Add(order.TotalAmount)

		for _, item := range order.Items {
			quantities[item.ProductName] += int64(item.Qty)
		}
	}

	summary := Summary{
		TotalOrders:    len(orders),
		TotalSales:     pricing.Format(pricing.Round(total)),
		OrdersByStatus: byStatus,
		SalesByPayment: make(map[models.PaymentMethod]string, len(byPayment)),
		TopProducts:    topProducts(quantities, topProductsLimit),
		SalesByMonth:   make([]MonthlySales, 0, len(byMonth)),
	}
	for method, amount := range byPayment {
		summary.SalesByPayment[method] = pricing.Format(pricing.Round(amount))
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)
	for _, month := range months {
		summary.SalesByMonth = append(summary.SalesByMonth, MonthlySales{
			Month: month,
			Total: pricing.Format(pricing.Round(byMonth[month])),
		})
	}
	return summary
}

// topProducts orders by quantity, highest first, ties by name.
func topProducts(quantities map[string]int64, limit int) []ProductQuantity {
	products := make([]ProductQuantity, 0, len(quantities))
	for name, qty := range quantities {
		products = append(products, ProductQuantity{ProductName: name, Quantity: qty})
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Quantity != products[j].Quantity {
			return products[i].Quantity > products[j].Quantity
		}
		return products[i].ProductName < products[j].ProductName
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products
}
