package handlers

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-service/models"
	"pos-service/reports"
)

func fillCart(t *testing.T, s *testServer, token string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/cart/items", token, gin.H{"product_id": 1, "size": "medium", "addons": []string{"Soy Milk"}, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/cart/items", token, gin.H{"product_id": 2, "size": "Regular"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCheckout(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")
	fillCart(t, s, token)

	w := s.do(t, http.MethodPost, "/checkout", token, gin.H{"paymentMethod": "Cash"})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[models.CheckoutResponse](t, w)
	assert.Equal(t, int32(1), resp.OrderID)
	assert.Equal(t, int32(1), resp.CustomerNumber)
	assert.Equal(t, "300.50", resp.TotalAmount)

	require.Len(t, s.backend.created, 1)
	assert.True(t, s.backend.created[0].TotalAmount.Equal(decimal.RequireFromString("300.50")))
	assert.Equal(t, []string{token}, s.backend.tokens)

	view := decode[models.CartView](t, s.do(t, http.MethodGet, "/cart", token, nil))
	assert.Empty(t, view.Lines)

	listed := decode[[]models.Order](t, s.do(t, http.MethodGet, "/orders?status=pending", token, nil))
	require.Len(t, listed, 1)
	assert.Equal(t, models.StatusPending, listed[0].Status)
}

func TestCheckoutValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")

	w := s.do(t, http.MethodPost, "/checkout", token, gin.H{"paymentMethod": "cash"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cart empty", decode[models.ErrorResponse](t, w).Message)

	fillCart(t, s, token)
	w = s.do(t, http.MethodPost, "/checkout", token, gin.H{"paymentMethod": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "payment method required", decode[models.ErrorResponse](t, w).Message)

	assert.Empty(t, s.backend.created)
}

func TestCheckoutSubmissionFailureKeepsCart(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")
	fillCart(t, s, token)
	s.backend.createErr = errors.New("connection reset")

	w := s.do(t, http.MethodPost, "/checkout", token, gin.H{"paymentMethod": "gcash"})

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "SUBMISSION_FAILED", decode[models.ErrorResponse](t, w).Error)
	view := decode[models.CartView](t, s.do(t, http.MethodGet, "/cart", token, nil))
	assert.Len(t, view.Lines, 2)
	assert.Equal(t, 0, s.book.Len())
}

func TestCheckoutBackendRejectsTokenDropsSession(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")
	fillCart(t, s, token)
	s.backend.createErr = &models.AuthError{}

	w := s.do(t, http.MethodPost, "/checkout", token, gin.H{"paymentMethod": "cash"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, s.sessions.Len())
}

func TestCheckoutInFlightIsRejected(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")
	fillCart(t, s, token)
	s.backend.block = make(chan struct{})
	s.backend.entered = make(chan struct{}, 1)

	var wg sync.WaitGroup
	var first int
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = s.do(t, http.MethodPost, "/checkout", token, gin.H{"paymentMethod": "cash"}).Code
	}()

	select {
	case <-s.backend.entered:
	case <-time.After(testWait):
		t.Fatal("checkout never reached the order service")
	}

	second := s.do(t, http.MethodPost, "/checkout", token, gin.H{"paymentMethod": "cash"})
	assert.Equal(t, http.StatusConflict, second.Code)

	// the cart is still editable while the submission is in flight
	w := s.do(t, http.MethodPost, "/cart/items", token, gin.H{"product_id": 2, "size": "Regular"})
	assert.Equal(t, http.StatusOK, w.Code)

	close(s.backend.block)
	wg.Wait()
	assert.Equal(t, http.StatusCreated, first)

	view := decode[models.CartView](t, s.do(t, http.MethodGet, "/cart", token, nil))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Blueberry Muffin", view.Lines[0].Name)
	assert.Equal(t, int32(1), view.Lines[0].Quantity)
}

func TestProcessAndCancelOrders(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")
	fillCart(t, s, token)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/checkout", token, gin.H{"paymentMethod": "cash"}).Code)
	fillCart(t, s, token)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/checkout", token, gin.H{"paymentMethod": "credit"}).Code)

	w := s.do(t, http.MethodPost, "/orders/1/process", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusCompleted, decode[models.ProcessOrderResponse](t, w).Order.Status)

	w = s.do(t, http.MethodPost, "/orders/1/process", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/orders/2/cancel", token, gin.H{"adminPin": "0000"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INVALID_PIN", decode[models.ErrorResponse](t, w).Error)
	assert.Equal(t, 2, s.book.Len())

	w = s.do(t, http.MethodPost, "/orders/2/cancel", token, gin.H{"adminPin": "1234"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, s.book.Len())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/orders/9/process", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/orders/abc/process", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/orders?status=lost", token, nil).Code)
}

func TestProcessOrderFailureStaysPending(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")
	s.book.Append(models.Order{OrderID: 5, Status: models.StatusPending})
	s.backend.updateErr = errors.New("timeout")

	w := s.do(t, http.MethodPost, "/orders/5/process", token, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	order, _ := s.book.Get(5)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestRefreshOrders(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "maria")
	s.backend.remote = []models.Order{
		{OrderID: 10, Status: models.StatusCompleted},
		{OrderID: 11, Status: models.StatusPending},
	}

	w := s.do(t, http.MethodPost, "/orders/refresh", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Order](t, w), 2)

	s.backend.listErr = &models.FetchError{Resource: "orders", Err: errors.New("down")}
	w = s.do(t, http.MethodPost, "/orders/refresh", token, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 2, s.book.Len())
}

func TestReportSummary(t *testing.T) {
	s := newTestServer(t)
	cashier := s.login(t, "maria")
	admin := s.login(t, "boss")
	fillCart(t, s, cashier)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/checkout", cashier, gin.H{"paymentMethod": "cash"}).Code)

	w := s.do(t, http.MethodGet, "/reports/summary", admin, nil)

	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[reports.Summary](t, w)
	assert.Equal(t, 1, summary.TotalOrders)
	assert.Equal(t, "300.50", summary.TotalSales)
	assert.Equal(t, "300.50", summary.SalesByPayment[models.PaymentCash])
}
