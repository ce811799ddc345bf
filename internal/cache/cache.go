// Package cache provides a single-flight result cache for optimization
// runs. Entries expire after a TTL, failures after a much shorter negative
// TTL, and the cache evicts least-recently-used entries past its capacity.
package cache

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a TTL plus capacity bounded LRU keyed by fingerprint strings.
// Concurrent GetOrCompute calls for the same key share one computation.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is most recently used

	capacity    int
	ttl         time.Duration
	negativeTTL time.Duration

	group  singleflight.Group
	logger *slog.Logger

	hits   uint64
	misses uint64

	now func() time.Time // overridable in tests
}

type entry struct {
	key     string
	value   any
	err     error
	expires time.Time
}

// New creates a cache holding at most capacity entries. Successful results
// live for ttl, failed ones for negativeTTL; a zero negativeTTL disables
// caching of failures. A nil logger falls back to the default logger.
func New(capacity int, ttl, negativeTTL time.Duration, logger *slog.Logger) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries:     make(map[string]*list.Element, capacity),
		order:       list.New(),
		capacity:    capacity,
		ttl:         ttl,
		negativeTTL: negativeTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// GetOrCompute returns the cached value for key, or runs compute and caches
// its outcome. Concurrent callers with the same key block on one compute
// call and share its result. The hit flag reports whether the value came
// from the cache without computing.
func (c *Cache) GetOrCompute(key string, compute func() (any, error)) (any, bool, error) {
	if value, err, ok := c.lookup(key); ok {
		return value, true, err
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have stored the
		// entry between our lookup and joining the group. Stat-silent, so
		// one logical miss counts once.
		if value, err, ok := c.peek(key); ok {
			return value, err
		}
		value, err := compute()
		c.store(key, value, err)
		return value, err
	})
	return value, false, err
}

// Get returns the cached value for key without computing.
func (c *Cache) Get(key string) (any, bool, error) {
	value, err, ok := c.lookup(key)
	return value, ok, err
}

// Put stores an outcome directly, bypassing single-flight. Callers that
// must decide per outcome whether to cache at all use Get and Put instead
// of GetOrCompute.
func (c *Cache) Put(key string, value any, err error) {
	c.store(key, value, err)
}

func (c *Cache) lookup(key string) (any, error, bool) {
	return c.find(key, true)
}

// peek is lookup without touching the hit/miss counters.
func (c *Cache) peek(key string) (any, error, bool) {
	return c.find(key, false)
}

func (c *Cache) find(key string, count bool) (any, error, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		if count {
			c.misses++
		}
		return nil, nil, false
	}
	ent := el.Value.(*entry)
	if c.now().After(ent.expires) {
		c.order.Remove(el)
		delete(c.entries, key)
		if count {
			c.misses++
		}
		return nil, nil, false
	}
	c.order.MoveToFront(el)
	if count {
		c.hits++
	}
	return ent.value, ent.err, true
}

func (c *Cache) store(key string, value any, err error) {
	ttl := c.ttl
	if err != nil {
		if c.negativeTTL <= 0 {
			return
		}
		ttl = c.negativeTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ent := &entry{key: key, value: value, err: err, expires: c.now().Add(ttl)}
	if el, ok := c.entries[key]; ok {
		el.Value = ent
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(ent)

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		evicted := oldest.Value.(*entry)
		c.order.Remove(oldest)
		delete(c.entries, evicted.key)
		c.logger.Debug("cache entry evicted", "key", evicted.key)
	}
}

// Len returns the number of live entries, expired ones included until
// their next lookup.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}
