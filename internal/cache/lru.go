package cache

import (
	"strings"
	"sync"
	"time"
)

type entry[T any] struct {
	key       string
	data      T
	expiresAt time.Time
	prev      *entry[T]
	next      *entry[T]
}

// LRUCache is a fixed-capacity cache with per-entry TTL. Entries are
// kept on an intrusive recency list; the least recently used entry is
// evicted when capacity is exceeded.
type LRUCache[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*entry[T]
	head     *entry[T] // most recently used
	tail     *entry[T] // least recently used
	hits     int64
	misses   int64
}

// NewLRUCache creates a cache holding at most capacity entries, each
// valid for ttl after its last Set.
func NewLRUCache[T any](capacity int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*entry[T]),
	}
}

// Get returns the cached value for key if present and not expired.
func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		c.remove(e)
		c.misses++
		return zero, false
	}

	c.moveToFront(e)
	c.hits++
	return e.data, true
}

// Set stores data under key, refreshing the TTL. The least recently
// used entry is evicted if the cache is full.
func (c *LRUCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.data = data
		e.expiresAt = time.Now().Add(c.ttl)
		c.moveToFront(e)
		return
	}

	e := &entry[T]{key: key, data: data, expiresAt: time.Now().Add(c.ttl)}
	c.entries[key] = e
	c.pushFront(e)

	if len(c.entries) > c.capacity && c.tail != nil {
		c.remove(c.tail)
	}
}

// Delete removes key if present.
func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.remove(e)
	}
}

// DeletePrefix removes every entry whose key starts with prefix and
// returns how many were removed. Ledger writes use it to drop all of a
// household's cached views at once.
func (c *LRUCache[T]) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for e := c.head; e != nil; {
		next := e.next
		if strings.HasPrefix(e.key, prefix) {
			c.remove(e)
			removed++
		}
		e = next
	}
	return removed
}

// CleanExpired removes all expired entries and returns how many were
// removed.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for e := c.head; e != nil; {
		next := e.next
		if now.After(e.expiresAt) {
			c.remove(e)
			removed++
		}
		e = next
	}
	return removed
}

// Size returns the number of live entries.
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cumulative hit and miss counts.
func (c *LRUCache[T]) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *LRUCache[T]) pushFront(e *entry[T]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRUCache[T]) moveToFront(e *entry[T]) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *LRUCache[T]) remove(e *entry[T]) {
	c.unlink(e)
	delete(c.entries, e.key)
}

func (c *LRUCache[T]) unlink(e *entry[T]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
