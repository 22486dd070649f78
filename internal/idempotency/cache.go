// ABOUTME: Thread-safe TTL cache mapping Idempotency-Key values to created record ids
// ABOUTME: Lets a retried create return the record made by the first attempt

package idempotency

import (
	"container/list"
	"sync"
	"time"
)

// pending marks a key whose create is still running.
const pending int64 = -1

// cacheEntry stores the result, timestamp and list element for a cached key.
type cacheEntry struct {
	id        int64
	timestamp time.Time
	element   *list.Element
}

// Cache is a TTL-based, size-limited map from request keys to the id of the
// record the first request created. Uses a doubly-linked list to maintain
// insertion order for O(1) eviction.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   *list.List // keys in insertion order (oldest at front)
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// New creates a cache with the specified TTL and maximum size.
// A background goroutine periodically cleans up expired entries.
func New(ttl time.Duration, maxSize int) *Cache {
	c := &Cache{
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Key scopes a client-supplied idempotency key to a principal and route.
func Key(principalID, route, clientKey string) string {
	return principalID + "\x00" + route + "\x00" + clientKey
}

// Lookup returns the id recorded for key, if a completed create is cached.
func (c *Cache) Lookup(key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.live(key)
	if !ok || entry.id == pending {
		return 0, false
	}
	return entry.id, true
}

// Reserve atomically claims key for a create about to run. It returns false
// when the key is already claimed or completed. A successful Reserve must be
// followed by Remember or Release.
func (c *Cache) Reserve(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.live(key); ok {
		return false
	}
	c.putLocked(key, pending)
	return true
}

// Remember records the id created under key.
func (c *Cache) Remember(key string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(key, id)
}

// Release drops a reservation whose create failed, so a retry can run.
func (c *Cache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok && entry.id == pending {
		c.order.Remove(entry.element)
		delete(c.entries, key)
	}
}

// Forget drops a completed entry, but only while key still maps to id.
func (c *Cache) Forget(key string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok && entry.id == id {
		c.order.Remove(entry.element)
		delete(c.entries, key)
	}
}

// Len returns the number of cached keys, including reservations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// live returns the unexpired entry for key. Must be called with mu held.
func (c *Cache) live(key string) (*cacheEntry, bool) {
	entry, ok := c.entries[key]
	if !ok || time.Since(entry.timestamp) >= c.ttl {
		return nil, false
	}
	return entry, true
}

// putLocked stores id under key. Must be called with mu held.
func (c *Cache) putLocked(key string, id int64) {
	now := time.Now()

	// If key already exists, update and move to back
	if entry, exists := c.entries[key]; exists {
		entry.id = id
		entry.timestamp = now
		c.order.MoveToBack(entry.element)
		return
	}

	// Evict oldest if at capacity
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(key)
	c.entries[key] = &cacheEntry{
		id:        id,
		timestamp: now,
		element:   elem,
	}
}

// evictOldest removes the oldest entry from the cache.
// Must be called with mu held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}

	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, key)
}

// cleanup runs in a background goroutine, periodically removing expired entries.
func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCleanup()
		case <-c.done:
			return
		}
	}
}

// runCleanup removes all expired entries from the cache.
func (c *Cache) runCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if now.Sub(entry.timestamp) >= c.ttl {
			c.order.Remove(entry.element)
			delete(c.entries, key)
		}
	}
}

// Close stops the background cleanup goroutine. It is safe to call multiple times.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
