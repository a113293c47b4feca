package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-service/models"
)

func TestAddItemMergesEquivalentLines(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")

	first := gin.H{"product_id": 1, "size": "medium", "addons": []string{"Soy Milk", "Extra Shot"}}
	second := gin.H{"product_id": 1, "size": "medium", "addons": []string{"Extra Shot", "Soy Milk"}, "quantity": 2}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/items", token, first).Code)
	w := s.do(t, http.MethodPost, "/cart/items", token, second)

	require.Equal(t, http.StatusOK, w.Code)
	view := decode[models.CartView](t, w)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, int32(3), view.Lines[0].Quantity)
	assert.Equal(t, "105.00", view.Lines[0].UnitPrice)
	assert.Equal(t, "465.00", view.Lines[0].LineTotal)
	assert.Equal(t, "465.00", view.Total)
}

func TestCartLineOperations(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")
	s.do(t, http.MethodPost, "/cart/items", token, gin.H{"product_id": 1, "size": "small"})
	s.do(t, http.MethodPost, "/cart/items", token, gin.H{"product_id": 2, "size": "Regular"})

	view := decode[models.CartView](t, s.do(t, http.MethodPost, "/cart/items/1/increase", token, nil))
	assert.Equal(t, int32(2), view.Lines[1].Quantity)
	assert.Equal(t, "196.00", view.Total)

	view = decode[models.CartView](t, s.do(t, http.MethodPost, "/cart/items/0/decrease", token, nil))
	assert.Equal(t, int32(1), view.Lines[0].Quantity)

	view = decode[models.CartView](t, s.do(t, http.MethodDelete, "/cart/items/0", token, nil))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Blueberry Muffin", view.Lines[0].Name)

	view = decode[models.CartView](t, s.do(t, http.MethodDelete, "/cart", token, nil))
	assert.Empty(t, view.Lines)
	assert.Equal(t, "0.00", view.Total)
}

func TestCartErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown size", http.MethodPost, "/cart/items", gin.H{"product_id": 1, "size": "venti"}, http.StatusBadRequest},
		{"unknown add-on", http.MethodPost, "/cart/items", gin.H{"product_id": 1, "size": "small", "addons": []string{"Gold"}}, http.StatusBadRequest},
		{"unknown product", http.MethodPost, "/cart/items", gin.H{"product_id": 99, "size": "small"}, http.StatusNotFound},
		{"missing size", http.MethodPost, "/cart/items", gin.H{"product_id": 1}, http.StatusBadRequest},
		{"line out of range", http.MethodDelete, "/cart/items/5", nil, http.StatusNotFound},
		{"bad index", http.MethodPost, "/cart/items/x/increase", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	view := decode[models.CartView](t, s.do(t, http.MethodGet, "/cart", token, nil))
	assert.Empty(t, view.Lines)
}

func TestCartsArePerSession(t *testing.T) {
	s := newTestServer(t)
	maria := s.login(t, "maria")
	boss := s.login(t, "boss")

	s.do(t, http.MethodPost, "/cart/items", maria, gin.H{"product_id": 2, "size": "Regular"})

	view := decode[models.CartView](t, s.do(t, http.MethodGet, "/cart", boss, nil))
	assert.Empty(t, view.Lines)
}

func TestCatalogProductsFilter(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")

	w := s.do(t, http.MethodGet, "/catalog/products?search=muf&category=all", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]models.Product](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, "Blueberry Muffin", found[0].Name)

	categories := decode[[]models.Category](t, s.do(t, http.MethodGet, "/catalog/categories", token, nil))
	assert.Len(t, categories, 2)
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")

	w := s.do(t, http.MethodGet, "/catalog/products/2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Blueberry Muffin", decode[models.Product](t, w).Name)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/catalog/products/42", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/catalog/products/zero", token, nil).Code)
}
