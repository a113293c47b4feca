package orders

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"pos-service/models"
)

// OrderLister is the read side of the order service.
type OrderLister interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// Book is the local mirror of the order service's order list. The order
// service stays the source of truth; Refresh replaces the mirror wholesale.
type Book struct {
	mu        sync.RWMutex
	orders    []models.Order
	source    OrderLister
	group     singleflight.Group
	listeners []func()
}

func NewBook(source OrderLister) *Book {
	return &Book{source: source}
}

// OnChange registers fn to run after every change to the book.
func (b *Book) OnChange(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

func (b *Book) notify() {
	b.mu.RLock()
	listeners := append([]func(){}, b.listeners...)
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

func (b *Book) List() []models.Order {
	return b.filter(func(models.Order) bool { return true })
}

func (b *Book) Pending() []models.Order {
	return b.filter(func(o models.Order) bool { return o.Status == models.StatusPending })
}

func (b *Book) Completed() []models.Order {
	return b.filter(func(o models.Order) bool { return o.Status == models.StatusCompleted })
}

func (b *Book) filter(keep func(models.Order) bool) []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Order, 0, len(b.orders))
	for _, o := range b.orders {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	return out
}

func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}

func (b *Book) Get(orderID int32) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i := b.index(orderID); i >= 0 {
		return b.orders[i].Clone(), true
	}
	return models.Order{}, false
}

func (b *Book) Append(order models.Order) {
	b.mu.Lock()
	b.orders = append(b.orders, order.Clone())
	b.mu.Unlock()
	b.notify()
}

// Replace swaps in order for the entry with the same id.
func (b *Book) Replace(order models.Order) bool {
	b.mu.Lock()
	i := b.index(order.OrderID)
	if i >= 0 {
		b.orders[i] = order.Clone()
	}
	b.mu.Unlock()

	if i < 0 {
		return false
	}
	b.notify()
	return true
}

func (b *Book) Remove(orderID int32) bool {
	b.mu.Lock()
	i := b.index(orderID)
	if i >= 0 {
		b.orders = append(b.orders[:i], b.orders[i+1:]...)
	}
	b.mu.Unlock()

	if i < 0 {
		return false
	}
	b.notify()
	return true
}

// Refresh reloads the book from the order service. Concurrent calls share a
// single fetch. On failure the previous contents are kept.
func (b *Book) Refresh(ctx context.Context) error {
	_, err, _ := b.group.Do("orders", func() (any, error) {
		fetched, err := b.source.ListOrders(ctx)
		if err != nil {
			return nil, err
		}

		orders := make([]models.Order, len(fetched))
		for i, o := range fetched {
			orders[i] = o.Clone()
		}

		b.mu.Lock()
		b.orders = orders
		b.mu.Unlock()
		b.notify()
		return nil, nil
	})
	return err
}

// index must be called with mu held.
func (b *Book) index(orderID int32) int {
	for i := range b.orders {
		if b.orders[i].OrderID == orderID {
			return i
		}
	}
	return -1
}
