package cache

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/plasticlens/backend/internal/domain"
)

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = 10 * time.Minute

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	value      []byte
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex

	onResize func(entries int)

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Option configures a MemoryCache.
type Option func(*options)

type options struct {
	interval time.Duration
	onResize func(entries int)
}

// WithCleanupInterval sets how often expired entries are swept.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithSizeReporter registers fn to receive the entry count after every
// write, delete and sweep.
func WithSizeReporter(fn func(entries int)) Option {
	return func(o *options) {
		o.onResize = fn
	}
}

// NewMemoryCache creates a new in-memory cache that sweeps expired entries
// every DefaultCleanupInterval until Close is called.
func NewMemoryCache(opts ...Option) *MemoryCache {
	o := options{interval: DefaultCleanupInterval}
	for _, opt := range opts {
		opt(&o)
	}

	cache := &MemoryCache{
		data:     make(map[string]cacheItem),
		onResize: o.onResize,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go cache.cleanupExpired(o.interval)

	return cache
}

// Get retrieves a copy of a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	return bytes.Clone(item.value), nil
}

// Set stores a copy of value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mutex.Lock()
	c.data[key] = cacheItem{
		value:      bytes.Clone(value),
		expiration: time.Now().Add(ttl),
	}
	c.mutex.Unlock()

	c.reportSize()
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	delete(c.data, key)
	c.mutex.Unlock()

	c.reportSize()
	return nil
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	<-c.done
	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
			c.reportSize()
		}
	}
}

func (c *MemoryCache) removeExpired(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, item := range c.data {
		if now.After(item.expiration) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of items in the cache, expired ones
// included until the next sweep.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func (c *MemoryCache) reportSize() {
	if c.onResize != nil {
		c.onResize(c.Size())
	}
}
