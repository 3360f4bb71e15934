// Package cache provides a small generic TTL cache with LRU eviction.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultSize is the entry limit used when no size option is given.
const DefaultSize = 1024

// Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

type options struct {
	size int
}

// Option configures a Cache.
type Option func(*options)

// WithSize bounds the number of entries. Values <= 0 are ignored.
func WithSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.size = size
		}
	}
}

// New creates a cache whose entries expire after ttl.
// A ttl <= 0 disables expiry (pure LRU).
func New[K comparable, V any](ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{size: DefaultSize}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl < 0 {
		ttl = 0
	}

	return &Cache[K, V]{
		lru: expirable.NewLRU[K, V](o.size, nil, ttl),
	}
}

// Get returns the cached value for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Set stores value under key, evicting the least recently used entry if full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.lru.Add(key, value)
}

// Delete removes key.
func (c *Cache[K, V]) Delete(key K) {
	c.lru.Remove(key)
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Errors are returned as is and never cached.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}

	c.lru.Add(key, v)
	return v, nil
}
