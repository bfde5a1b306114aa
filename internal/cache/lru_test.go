package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "1")
	if got, ok := c.Get("a"); !ok || got != "1" {
		t.Errorf("Get(a) = %q, %v, want 1, true", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should report a miss")
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should not be returned")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d after expired read, want 0", c.Size())
	}
}

func TestLRUCache_DeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("dashboard:1:2025-06", 1)
	c.Set("dashboard:1:2025-05", 2)
	c.Set("dashboard:11:2025-06", 3)
	c.Set("report:1:2025-06", 4)

	removed := c.DeletePrefix("dashboard:1:")
	if removed != 2 {
		t.Errorf("DeletePrefix removed %d entries, want 2", removed)
	}
	if _, ok := c.Get("dashboard:11:2025-06"); !ok {
		t.Error("entry for another household was removed")
	}
	if _, ok := c.Get("report:1:2025-06"); !ok {
		t.Error("entry for another view was removed")
	}
}

func TestLRUCache_CleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 99)

	if removed := c.CleanExpired(); removed != 5 {
		t.Errorf("CleanExpired() = %d, want 5", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry was cleaned")
	}
}

func TestLRUCache_Stats(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses, want 2, 1", hits, misses)
	}
}
