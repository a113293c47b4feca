// Package catalog serves cached catalog data and turns a product selection
// into a priced cart line.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pos-service/models"
)

// Source is the catalog side of the REST backend.
type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
	Sizes(ctx context.Context) ([]models.SizeOption, error)
	Addons(ctx context.Context) ([]models.Addon, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Roles(ctx context.Context) ([]models.Role, error)
}

type Service struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	products   cached[models.Product]
	sizes      cached[models.SizeOption]
	addons     cached[models.Addon]
	categories cached[models.Category]
	roles      cached[models.Role]
}

func NewService(source Source, ttl time.Duration) *Service {
	return &Service{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for cache expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.products.get(ctx, s.ttl, s.now(), "products", s.source.Products)
}

func (s *Service) Sizes(ctx context.Context) ([]models.SizeOption, error) {
	return s.sizes.get(ctx, s.ttl, s.now(), "sizes", s.source.Sizes)
}

func (s *Service) Addons(ctx context.Context) ([]models.Addon, error) {
	return s.addons.get(ctx, s.ttl, s.now(), "addons", s.source.Addons)
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.get(ctx, s.ttl, s.now(), "categories", s.source.Categories)
}

func (s *Service) Roles(ctx context.Context) ([]models.Role, error) {
	return s.roles.get(ctx, s.ttl, s.now(), "roles", s.source.Roles)
}

// Product looks a product up by id.
func (s *Service) Product(ctx context.Context, id int32) (models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, models.ErrProductNotFound
}

// ResolveItem prices an add-to-cart request against the catalog.
func (s *Service) ResolveItem(ctx context.Context, req models.AddItemRequest) (models.CartLine, error) {
	product, err := s.Product(ctx, req.ProductID)
	if err != nil {
		return models.CartLine{}, err
	}
	return Resolve(product, req.Size, req.Addons, req.Quantity)
}

// FilterProducts keeps products whose name contains search, ignoring case,
// and whose category matches. An empty category or "all" matches every
// category.
func FilterProducts(products []models.Product, search, category string) []models.Product {
	search = strings.ToLower(strings.TrimSpace(search))
	category = strings.TrimSpace(category)
	anyCategory := category == "" || strings.EqualFold(category, "all")

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !anyCategory && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Resolve builds the cart line for product in the given size with the named
// add-ons. Prices always come from the product; unknown sizes and add-ons are
// rejected.
func Resolve(product models.Product, size string, addonNames []string, qty int32) (models.CartLine, error) {
	sizeName, price, ok := findSize(product, size)
	if !ok {
		return models.CartLine{}, models.NewValidationError(
			fmt.Sprintf("size %q is not available for %s", size, product.Name))
	}

	addons := make([]models.Addon, 0, len(addonNames))
	for _, name := range addonNames {
		addon, ok := findAddon(product, name)
		if !ok {
			return models.CartLine{}, models.NewValidationError(
				fmt.Sprintf("add-on %q is not available for %s", name, product.Name))
		}
		addons = append(addons, addon)
	}

	if qty <= 0 {
		qty = 1
	}
	return models.CartLine{
		ProductName: product.Name,
		Category:    product.Category,
		Size:        sizeName,
		UnitPrice:   price,
		Addons:      addons,
		Quantity:    qty,
	}, nil
}

func findSize(product models.Product, size string) (string, decimal.Decimal, bool) {
	size = strings.TrimSpace(size)
	if price, ok := product.Sizes[size]; ok {
		return size, price, true
	}
	for name, price := range product.Sizes {
		if strings.EqualFold(name, size) {
			return name, price, true
		}
	}
	return "", decimal.Decimal{}, false
}

func findAddon(product models.Product, name string) (models.Addon, bool) {
	name = strings.TrimSpace(name)
	for _, addon := range product.Addons {
		if strings.EqualFold(addon.Name, name) {
			return addon, true
		}
	}
	return models.Addon{}, false
}
