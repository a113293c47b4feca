package models

import "github.com/shopspring/decimal"

// CartLine is one row of the cashier's cart.
type CartLine struct {
	ProductName string          `json:"name"`
	Category    string          `json:"category"`
	Size        string          `json:"size"`
	UnitPrice   decimal.Decimal `json:"price"`
	Addons      []Addon         `json:"addons"`
	Quantity    int32           `json:"quantity"`
}

// Clone returns a copy that shares no slices with l.
func (l CartLine) Clone() CartLine {
	c := l
	if l.Addons != nil {
		c.Addons = append([]Addon(nil), l.Addons...)
	}
	return c
}

type AddItemRequest struct {
	ProductID int32    `json:"product_id" binding:"required,min=1"`
	Size      string   `json:"size" binding:"required"`
	Addons    []string `json:"addons"`
	Quantity  int32    `json:"quantity" binding:"omitempty,min=1"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type CheckoutResponse struct {
	OrderID        int32  `json:"orderID"`
	CustomerNumber int32  `json:"customerNumber"`
	TotalAmount    string `json:"totalAmount"`
}

type CartLineView struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Size      string  `json:"size"`
	UnitPrice string  `json:"price"`
	Addons    []Addon `json:"addons"`
	Quantity  int32   `json:"quantity"`
	LineTotal string  `json:"lineTotal"`
}

type CartView struct {
	Lines    []CartLineView `json:"lines"`
	Total    string         `json:"total"`
	Revision uint64         `json:"revision"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
