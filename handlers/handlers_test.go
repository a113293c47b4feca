package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pos-service/catalog"
	"pos-service/clients"
	"pos-service/models"
	"pos-service/orders"
	"pos-service/session"
)

var cashierRole = models.Role{ID: 1, Name: "Cashier", Access: []models.Page{models.PageCashier, models.PageOrders}}
var adminRole = models.Role{ID: 2, Name: "Admin", Access: []models.Page{
	models.PageCashier, models.PageOrders, models.PageProducts, models.PageDashboard,
}}

var products = []models.Product{
	{
		ID:       1,
		Name:     "Caffe Latte",
		Category: "Coffee",
		Sizes: map[string]decimal.Decimal{
			"small":  decimal.NewFromInt(95),
			"medium": decimal.NewFromInt(105),
		},
		Addons: []models.Addon{
			{Name: "Soy Milk", Price: decimal.NewFromInt(20), Category: "Coffee"},
			{Name: "Extra Shot", Price: decimal.NewFromInt(30), Category: "Coffee"},
		},
	},
	{
		ID:       2,
		Name:     "Blueberry Muffin",
		Category: "Dessert",
		Sizes:    map[string]decimal.Decimal{"Regular": decimal.RequireFromString("50.50")},
	},
}

// fakeBackend stands in for the auth, catalog and order services.
type fakeBackend struct {
	mu        sync.Mutex
	users     map[string]models.User
	createErr error
	updateErr error
	listErr   error
	remote    []models.Order
	created   []models.Order
	tokens    []string
	block     chan struct{}
	entered   chan struct{}
	revoked   bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{users: map[string]models.User{
		"maria": {ID: 1, Username: "maria", Name: "Maria", Role: "cashier"},
		"boss":  {ID: 2, Username: "boss", Name: "Boss", Role: "ADMIN"},
		"ghost": {ID: 3, Username: "ghost", Role: "Barista"},
	}}
}

func (f *fakeBackend) Login(_ context.Context, username, password string) (clients.LoginResponse, error) {
	user, ok := f.users[username]
	if !ok || password != "secret" {
		return clients.LoginResponse{}, &models.AuthError{}
	}
	return clients.LoginResponse{Token: "token-" + username, User: user}, nil
}

func (f *fakeBackend) Me(ctx context.Context) (models.User, error) {
	if f.revoked {
		return models.User{}, &models.FetchError{Resource: "me", Err: &models.AuthError{}}
	}
	username := strings.TrimPrefix(clients.TokenFrom(ctx), "token-")
	return f.users[username], nil
}

func (f *fakeBackend) Products(context.Context) ([]models.Product, error) { return products, nil }
func (f *fakeBackend) Sizes(context.Context) ([]models.SizeOption, error) {
	return []models.SizeOption{{Name: "small", Price: decimal.NewFromInt(95), Category: "Coffee"}}, nil
}
func (f *fakeBackend) Addons(context.Context) ([]models.Addon, error) { return products[0].Addons, nil }
func (f *fakeBackend) Categories(context.Context) ([]models.Category, error) {
	return []models.Category{{ID: 1, Name: "Coffee"}, {ID: 2, Name: "Dessert"}}, nil
}
func (f *fakeBackend) Roles(context.Context) ([]models.Role, error) {
	return []models.Role{cashierRole, adminRole}, nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Order{}, f.createErr
	}
	f.created = append(f.created, order)
	f.tokens = append(f.tokens, clients.TokenFrom(ctx))
	return order, nil
}

func (f *fakeBackend) UpdateOrderStatus(_ context.Context, id int32, status models.OrderStatus) (models.Order, error) {
	if f.updateErr != nil {
		return models.Order{}, f.updateErr
	}
	return models.Order{OrderID: id, Status: status}, nil
}

func (f *fakeBackend) DeleteOrder(context.Context, int32) error { return nil }

func (f *fakeBackend) ListOrders(context.Context) ([]models.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.remote, nil
}

type testServer struct {
	router   *gin.Engine
	backend  *fakeBackend
	sessions *session.Store
	book     *orders.Book
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := newFakeBackend()
	sessions := session.NewStore()
	book := orders.NewBook(backend)
	deps := Dependencies{
		Sessions: sessions,
		Auth:     backend,
		Catalog:  catalog.NewService(backend, time.Minute),
		Builder:  orders.NewBuilder(backend, nil, "1234"),
		Book:     book,
	}
	return &testServer{
		router:   NewRouter(deps),
		backend:  backend,
		sessions: sessions,
		book:     book,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": username, "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

const testWait = 2 * time.Second
