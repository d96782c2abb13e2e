package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type localItem[V any] struct {
	value     V
	expiresAt time.Time
}

// Local is a bounded in-process LRU cache with per-entry expiry.
type Local[V any] struct {
	lru *lru.Cache[string, localItem[V]]
	ttl time.Duration

	mu  sync.Mutex
	now func() time.Time
}

// NewLocal creates a cache holding at most size entries for ttl each.
func NewLocal[V any](size int, ttl time.Duration) (*Local[V], error) {
	l, err := lru.New[string, localItem[V]](size)
	if err != nil {
		return nil, err
	}
	return &Local[V]{lru: l, ttl: ttl, now: time.Now}, nil
}

// Set stores value under key.
func (c *Local[V]) Set(key string, value V) {
	c.lru.Add(key, localItem[V]{value: value, expiresAt: c.clock().Add(c.ttl)})
}

// Get returns the cached value, dropping it when expired.
func (c *Local[V]) Get(key string) (V, bool) {
	item, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.clock().After(item.expiresAt) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return item.value, true
}

// Delete removes key.
func (c *Local[V]) Delete(key string) {
	c.lru.Remove(key)
}

// Len reports the number of stored entries, expired ones included.
func (c *Local[V]) Len() int {
	return c.lru.Len()
}

func (c *Local[V]) clock() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

// setClock replaces the time source; used by tests.
func (c *Local[V]) setClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
