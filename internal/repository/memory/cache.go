// Package memory holds an in-process domain.Cache used when no redis
// address is configured, mainly for local runs and tests.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Guyuepp/community-engagement/domain"
)

type item struct {
	value    string
	expireAt time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.expireAt.IsZero() && !now.Before(i.expireAt)
}

type Cache struct {
	mu    sync.Mutex
	items map[string]item
	now   func() time.Time
}

var _ domain.Cache = (*Cache)(nil)

type Option func(*Cache)

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func NewCache(opts ...Option) *Cache {
	c := &Cache{
		items: make(map[string]item),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// lookup must be called with mu held.
func (c *Cache) lookup(key string) (item, bool) {
	it, ok := c.items[key]
	if !ok {
		return item{}, false
	}
	if it.expired(c.now()) {
		delete(c.items, key)
		return item{}, false
	}
	return it, true
}

func (c *Cache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.lookup(key)
	return it.value, ok, nil
}

func (c *Cache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := item{value: value}
	if ttl > 0 {
		it.expireAt = c.now().Add(ttl)
	}
	c.items[key] = it
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *Cache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.lookup(key)
	return ok, nil
}

func (c *Cache) Increment(_ context.Context, key string, delta int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, _ := c.lookup(key)
	return c.add(key, it, delta)
}

func (c *Cache) IncrementExisting(_ context.Context, key string, delta int64) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.lookup(key)
	if !ok {
		return 0, false, nil
	}
	n, err := c.add(key, it, delta)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *Cache) IncrementWindow(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, _ := c.lookup(key)
	if it.expireAt.IsZero() && ttl > 0 {
		it.expireAt = c.now().Add(ttl)
	}
	return c.add(key, it, delta)
}

// add must be called with mu held. Non-integer values are an error,
// like INCRBY on a string in redis.
func (c *Cache) add(key string, it item, delta int64) (int64, error) {
	var cur int64
	if it.value != "" {
		v, err := strconv.ParseInt(it.value, 10, 64)
		if err != nil {
			return 0, err
		}
		cur = v
	}
	cur += delta
	it.value = strconv.FormatInt(cur, 10)
	c.items[key] = it
	return cur, nil
}

// Purge drops every expired entry and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for k, it := range c.items {
		if it.expired(now) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// RunJanitor purges expired entries every interval until ctx is done.
func (c *Cache) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}
