// Package pricing derives line and cart totals. Every function is pure.
package pricing

import (
	"github.com/shopspring/decimal"

	"pos-service/models"
)

const places = 2

func AddonTotal(addons []models.Addon) decimal.Decimal {
	total := decimal.Zero
	for _, addon := range addons {
		total = total.Add(addon.Price)
	}
	return total
}

// LineTotal is (unit price + add-ons) * quantity, unrounded.
func LineTotal(line models.CartLine) decimal.Decimal {
	return line.UnitPrice.Add(AddonTotal(line.Addons)).Mul(decimal.NewFromInt32(line.Quantity))
}

// CartTotal sums the line totals and rounds half-up to cents. The same value
// is shown before checkout and stored on the order.
func CartTotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line))
	}
	return Round(total)
}

// Round rounds to cents, half away from zero. Amounts are never negative, so
// this is half-up.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(places)
}

// Format renders an amount with exactly two decimals.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(places)
}

// View renders the cart for a terminal.
func View(lines []models.CartLine, revision uint64) models.CartView {
	view := models.CartView{
		Lines:    make([]models.CartLineView, len(lines)),
		Total:    Format(CartTotal(lines)),
		Revision: revision,
	}
	for i, line := range lines {
		addons := line.Addons
		if addons == nil {
			addons = []models.Addon{}
		}
		view.Lines[i] = models.CartLineView{
			Index:     i,
			Name:      line.ProductName,
			Category:  line.Category,
			Size:      line.Size,
			UnitPrice: Format(line.UnitPrice),
			Addons:    addons,
			Quantity:  line.Quantity,
			LineTotal: Format(Round(LineTotal(line))),
		}
	}
	return view
}
