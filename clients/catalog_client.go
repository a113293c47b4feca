package clients

import (
	"context"
	"net/http"

	"pos-service/models"
)

func (b *Backend) fetch(ctx context.Context, resource string, out any) error {
	if err := b.do(ctx, http.MethodGet, "/"+resource, nil, out, nil); err != nil {
		return &models.FetchError{Resource: resource, Err: err}
	}
	return nil
}

func (b *Backend) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	return products, b.fetch(ctx, "products", &products)
}

func (b *Backend) Sizes(ctx context.Context) ([]models.SizeOption, error) {
	var sizes []models.SizeOption
	return sizes, b.fetch(ctx, "sizes", &sizes)
}

func (b *Backend) Addons(ctx context.Context) ([]models.Addon, error) {
	var addons []models.Addon
	return addons, b.fetch(ctx, "addons", &addons)
}

func (b *Backend) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	return categories, b.fetch(ctx, "categories", &categories)
}

func (b *Backend) Roles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	return roles, b.fetch(ctx, "roles", &roles)
}
