package cache

import (
	"sync"
	"time"
)

// Cache is the read/write surface shared by cached views.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)

	// DeletePrefix removes every key sharing a prefix. Derived-view
	// caches key entries as "<view>:<householdID>:..." so a ledger
	// write can drop everything the household might now see stale.
	DeletePrefix(prefix string) int

	Size() int
}

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs periodic expiry cleanup over registered caches.
type Manager struct {
	mu       sync.Mutex
	cleaners []Cleaner
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewManager() *Manager {
	return &Manager{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the cleanup cycle. Call before StartCleanup.
func (m *Manager) Register(c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleaners = append(m.cleaners, c)
}

// StartCleanup launches the cleanup loop, sweeping every interval.
func (m *Manager) StartCleanup(interval time.Duration) {
	go func() {
		defer close(m.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Manager) sweep() {
	m.mu.Lock()
	cleaners := make([]Cleaner, len(m.cleaners))
	copy(cleaners, m.cleaners)
	m.mu.Unlock()

	for _, c := range cleaners {
		c.CleanExpired()
	}
}

// Stop ends the cleanup loop and waits for it to exit.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		<-m.done
	})
}
