// Package cache provides the in-memory TTL cache used to memoise receipt
// verification results.
package cache

import (
	"time"

	"github.com/iden3/go-zkvm-bls12381/constants"
	"github.com/karlseguin/ccache/v3"
)

// Cache is a generic interface for a cache implementation.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T, opts ...SetOption)
	Delete(key string) bool
	Clear()
	Len() int
}

type setOptions struct {
	ttl time.Duration
}

// SetOption customises a single Set call.
type SetOption func(*setOptions)

// WithTTL overrides the default TTL of an entry.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *setOptions) {
		o.ttl = ttl
	}
}

type inMemoryCache[T any] struct {
	cache      *ccache.Cache[T]
	defaultTTL time.Duration
}

// NewInMemoryCache creates a new in-memory cache. Zero options fall back to
// constants.VerificationCacheOptions.
func NewInMemoryCache[T any](opts constants.CacheTTLOptions) Cache[T] {
	if opts.MaxSize <= 0 {
		opts.MaxSize = constants.VerificationCacheOptions.MaxSize
	}
	if opts.TTL <= 0 {
		opts.TTL = constants.VerificationCacheOptions.TTL
	}
	return &inMemoryCache[T]{
		cache:      ccache.New(ccache.Configure[T]().MaxSize(opts.MaxSize)),
		defaultTTL: opts.TTL,
	}
}

// Get returns a live entry.
func (c *inMemoryCache[T]) Get(key string) (T, bool) {
	item := c.cache.Get(key)
	if item == nil || item.Expired() {
		var zero T
		return zero, false
	}
	return item.Value(), true
}

// Set stores value under key.
func (c *inMemoryCache[T]) Set(key string, value T, opts ...SetOption) {
	o := setOptions{ttl: c.defaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ttl <= 0 {
		o.ttl = c.defaultTTL
	}
	c.cache.Set(key, value, o.ttl)
}

// Delete removes key and reports whether it was present.
func (c *inMemoryCache[T]) Delete(key string) bool {
	return c.cache.Delete(key)
}

// Clear removes all entries.
func (c *inMemoryCache[T]) Clear() {
	c.cache.Clear()
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *inMemoryCache[T]) Len() int {
	return c.cache.ItemCount()
}
