// Package cart holds the in-progress selection of one cashier session.
package cart

import (
	"sync"

	"pos-service/models"
)

// Cart is an ordered list of lines in which no two lines are equivalent.
// It is safe for concurrent use.
type Cart struct {
	mu       sync.Mutex
	lines    []models.CartLine
	revision uint64
}

func New() *Cart {
	return &Cart{}
}

// Equivalent reports whether two lines describe the same product, size and
// add-on set. Add-on order does not matter.
func Equivalent(a, b models.CartLine) bool {
	if a.ProductName != b.ProductName || a.Size != b.Size {
		return false
	}
	return sameAddons(a.Addons, b.Addons)
}

func sameAddons(a, b []models.Addon) bool {
	left := addonSet(a)
	right := addonSet(b)
	if len(left) != len(right) {
		return false
	}
	for key := range left {
		if _, ok := right[key]; !ok {
			return false
		}
	}
	return true
}

func addonSet(addons []models.Addon) map[string]struct{} {
	set := make(map[string]struct{}, len(addons))
	for _, addon := range addons {
		set[addon.Key()] = struct{}{}
	}
	return set
}

// normalize copies item, defaults the quantity to 1 and drops repeated add-ons.
func normalize(item models.CartLine) models.CartLine {
	line := item.Clone()
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	if len(line.Addons) > 1 {
		seen := make(map[string]struct{}, len(line.Addons))
		addons := line.Addons[:0]
		for _, addon := range line.Addons {
			if _, dup := seen[addon.Key()]; dup {
				continue
			}
			seen[addon.Key()] = struct{}{}
			addons = append(addons, addon)
		}
		line.Addons = addons
	}
	return line
}

// Add merges item into an equivalent line, or appends it as a new line.
func (c *Cart) Add(item models.CartLine) {
	line := normalize(item)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.revision++
	for i := range c.lines {
		if Equivalent(c.lines[i], line) {
			c.lines[i].Quantity += line.Quantity
			return
		}
	}
	c.lines = append(c.lines, line)
}

// Remove deletes the line at index.
func (c *Cart) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid(index) {
		return models.ErrLineNotFound
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	c.revision++
	return nil
}

func (c *Cart) IncreaseQuantity(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid(index) {
		return models.ErrLineNotFound
	}
	c.lines[index].Quantity++
	c.revision++
	return nil
}

// DecreaseQuantity lowers the quantity by one but never below 1. Removing a
// line takes an explicit Remove.
func (c *Cart) DecreaseQuantity(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid(index) {
		return models.ErrLineNotFound
	}
	if c.lines[index].Quantity > 1 {
		c.lines[index].Quantity--
		c.revision++
	}
	return nil
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	c.revision++
}

// Lines returns a copy of the cart in display order.
func (c *Cart) Lines() []models.CartLine {
	lines, _ := c.Snapshot()
	return lines
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Snapshot returns a copy of the lines together with the revision they were
// read at.
func (c *Cart) Snapshot() ([]models.CartLine, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]models.CartLine, len(c.lines))
	for i, line := range c.lines {
		lines[i] = line.Clone()
	}
	return lines, c.revision
}

// Settle removes a submitted snapshot from the cart. If nothing changed since
// the snapshot was taken the cart is cleared; otherwise only the submitted
// quantities are taken out so lines edited in the meantime survive.
func (c *Cart) Settle(submitted []models.CartLine, revision uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	unchanged := c.revision == revision
	c.revision++
	if unchanged {
		c.lines = nil
		return
	}

	for _, sub := range submitted {
		for i := range c.lines {
			if !Equivalent(c.lines[i], sub) {
				continue
			}
			c.lines[i].Quantity -= sub.Quantity
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			break
		}
	}
}

func (c *Cart) valid(index int) bool {
	return index >= 0 && index < len(c.lines)
}
