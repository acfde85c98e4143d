package client

import (
	"strings"
	"sync"
	"time"
)

// QueryCache keeps raw query results keyed by procedure and input.
// Entries older than the stale time are refetched.
type QueryCache struct {
	mu        sync.RWMutex
	entries   map[string]cacheEntry
	staleTime time.Duration
	now       func() time.Time
}

type cacheEntry struct {
	data      []byte
	fetchedAt time.Time
}

// NewQueryCache creates a cache. A zero staleTime keeps entries until they
// are invalidated.
func NewQueryCache(staleTime time.Duration) *QueryCache {
	return &QueryCache{
		entries:   make(map[string]cacheEntry),
		staleTime: staleTime,
		now:       time.Now,
	}
}

// QueryKey builds the cache key of a procedure call
func QueryKey(procedure string, input []byte) string {
	if len(input) == 0 {
		return procedure
	}
	return procedure + "?" + string(input)
}

// Get returns a fresh entry
func (c *QueryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.staleTime > 0 && c.now().Sub(entry.fetchedAt) > c.staleTime {
		return nil, false
	}
	return entry.data, true
}

// Set stores data under key
func (c *QueryCache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: data, fetchedAt: c.now()}
}

// InvalidateQueries drops every entry of the given procedure and returns how
// many were removed
func (c *QueryCache) InvalidateQueries(procedure string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if key == procedure || strings.HasPrefix(key, procedure+"?") {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear drops everything
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of entries
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
