package catalog

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// cached holds one catalog list. A failed reload keeps serving the previous
// value; only a cold cache surfaces the error.
type cached[T any] struct {
	mu        sync.RWMutex
	value     []T
	fetchedAt time.Time
	warm      bool
	group     singleflight.Group
}

func (c *cached[T]) get(ctx context.Context, ttl time.Duration, now time.Time, name string, load func(context.Context) ([]T, error)) ([]T, error) {
	c.mu.RLock()
	if c.warm && now.Sub(c.fetchedAt) < ttl {
		value := c.value
		c.mu.RUnlock()
		return value, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(name, func() (any, error) {
		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.value = fresh
		c.fetchedAt = now
		c.warm = true
		c.mu.Unlock()
		return fresh, nil
	})
	if err == nil {
		return v.([]T), nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.warm {
		log.WithError(err).WithField("resource", name).Warn("catalog reload failed, serving cached copy")
		return c.value, nil
	}
	return nil, err
}
