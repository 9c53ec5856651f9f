package store

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/stationmap/weather-proxy/internal/weather"
)

type entry struct {
	expiresAt time.Time
	resp      weather.Response
}

// ResponseCache is a concurrency-safe in-memory TTL cache for normalized
// forecast responses. Entries are evicted lazily when a read finds them
// expired; there is no capacity bound and no background sweep.
type ResponseCache struct {
	mu   sync.RWMutex
	data map[string]entry

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewResponseCache creates an empty cache.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		data: make(map[string]entry),
	}
}

// Get returns the cached response for key if present and unexpired. An
// expired entry is deleted on the way out and reported as a miss.
func (c *ResponseCache) Get(key string) (weather.Response, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		c.misses.Inc()
		return weather.Response{}, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, ok := c.data[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.data, key)
			c.evictions.Inc()
		}
		c.mu.Unlock()
		c.misses.Inc()
		return weather.Response{}, false
	}

	c.hits.Inc()
	return e.resp, true
}

// Set stores resp under key with the given TTL, overwriting unconditionally.
func (c *ResponseCache) Set(key string, resp weather.Response, ttl time.Duration) {
	c.mu.Lock()
	c.data[key] = entry{
		expiresAt: time.Now().Add(ttl),
		resp:      resp,
	}
	c.mu.Unlock()
}

// Len returns the number of entries currently held, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Stats is a point-in-time view of the cache counters.
type Stats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Stats returns the current counters for the periodic reporter.
func (c *ResponseCache) Stats() Stats {
	return Stats{
		Entries:   c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
