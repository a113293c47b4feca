// Package session keeps the per-login state of a cashier terminal.
package session

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pos-service/access"
	"pos-service/cart"
)

// Session is everything a logged-in terminal owns: its token, cart and access
// gate. Every request carries the token so handlers never share carts.
type Session struct {
	ID        string
	Token     string
	Cart      *cart.Cart
	Gate      *access.Gate
	CreatedAt time.Time

	checkingOut atomic.Bool
}

func newSession(token string, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		Cart:      cart.New(),
		Gate:      access.NewGate(),
		CreatedAt: now,
	}
}

// BeginCheckout claims the checkout slot. It returns false while another
// submission from this session is still in flight.
func (s *Session) BeginCheckout() bool {
	return s.checkingOut.CompareAndSwap(false, true)
}

func (s *Session) EndCheckout() {
	s.checkingOut.Store(false)
}
