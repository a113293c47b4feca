package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Addon is an optional extra a customer can put on a product. Identity is the
// name within its category.
type Addon struct {
	ID       int32           `json:"id,omitempty"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// Key identifies an add-on inside a cart line.
func (a Addon) Key() string {
	return strings.ToLower(a.Category) + "\x00" + a.Name
}

type SizeOption struct {
	ID       int32           `json:"id,omitempty"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type Category struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Product as served by the catalog. Sizes maps a size name to its price and is
// never empty for a sellable product.
type Product struct {
	ID       int32                      `json:"id"`
	Name     string                     `json:"name"`
	Category string                     `json:"category"`
	Image    string                     `json:"image,omitempty"`
	Sizes    map[string]decimal.Decimal `json:"size"`
	Addons   []Addon                    `json:"addons"`
}

// Page is a capability token granted to a role.
type Page string

const (
	PageOrders    Page = "Orders"
	PageCashier   Page = "Cashier"
	PageProducts  Page = "Products"
	PageStaff     Page = "Staff"
	PageSettings  Page = "Settings"
	PageDashboard Page = "Dashboard"
)

type Role struct {
	ID     int32  `json:"id"`
	Name   string `json:"name"`
	Access []Page `json:"access"`
}

type User struct {
	ID       int32  `json:"id,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}
