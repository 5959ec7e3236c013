/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const (
	// DefaultMaxEntries bounds a cache built without WithMaxEntries.
	DefaultMaxEntries = 1000
	// DefaultIdleTimeout expires entries not read or written for this long.
	DefaultIdleTimeout = 10 * time.Minute
)

// Option configures a Cache.
type Option func(*options)

type options struct {
	maxEntries int
	idle       time.Duration
	now        func() time.Time
}

// WithMaxEntries sets the capacity. Values below 1 keep the default.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// WithIdleTimeout sets how long an entry survives without being accessed.
// Zero or negative disables idle expiry.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) { o.idle = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

type entry[V any] struct {
	value    V
	accessed time.Time
}

// Cache is a bounded, least-recently-used map whose entries also expire
// after an idle window. It is safe for concurrent use. A nil *Cache is valid
// and always misses.
type Cache[K comparable, V any] struct {
	mu   sync.Mutex
	lru  *simplelru.LRU[K, *entry[V]]
	idle time.Duration
	now  func() time.Time
}

// New builds a Cache.
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	o := options{maxEntries: DefaultMaxEntries, idle: DefaultIdleTimeout, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	// NewLRU only fails on a non-positive size, which options rule out.
	lru, err := simplelru.NewLRU[K, *entry[V]](o.maxEntries, nil)
	if err != nil {
		panic(err)
	}
	return &Cache[K, V]{lru: lru, idle: o.idle, now: o.now}
}

// GetIfPresent returns the value cached under k and refreshes its idle timer.
func (c *Cache[K, V]) GetIfPresent(k K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(k)
	if !ok {
		return zero, false
	}
	now := c.now()
	if c.expired(e, now) {
		c.lru.Remove(k)
		return zero, false
	}
	e.accessed = now
	return e.value, true
}

// Put stores v under k, evicting the least recently used entry when full.
func (c *Cache[K, V]) Put(k K, v V) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.expire(now)
	c.lru.Add(k, &entry[V]{value: v, accessed: now})
}

// Invalidate drops k.
func (c *Cache[K, V]) Invalidate(k K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(k)
}

// Len reports the number of live entries.
func (c *Cache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expire(c.now())
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

func (c *Cache[K, V]) expired(e *entry[V], now time.Time) bool {
	return c.idle > 0 && now.Sub(e.accessed) >= c.idle
}

// expire drops idle entries. Recency order equals access order, so expired
// entries are always the oldest ones.
func (c *Cache[K, V]) expire(now time.Time) {
	for {
		_, e, ok := c.lru.GetOldest()
		if !ok || !c.expired(e, now) {
			return
		}
		c.lru.RemoveOldest()
	}
}
