package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter tracks request counts per client IP over a one-minute window.
type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	requestsPerMinute int
	cleanupInterval   time.Duration
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

type LimiterConfig struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

func NewLimiter(config LimiterConfig) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config = DefaultLimiterConfig()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &Limiter{
		clients:           make(map[string]*clientInfo),
		stopCleanup:       make(chan struct{}),
		requestsPerMinute: config.RequestsPerMinute,
		cleanupInterval:   config.CleanupInterval,
	}
	go rl.startCleanup()
	return rl
}

// Allow checks if a request from the given IP should be allowed.
func (rl *Limiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= rl.requestsPerMinute
}

func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *Limiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// ActiveClients returns the number of currently tracked clients.
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop shuts down the cleanup goroutine.
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Middleware rejects requests over the per-IP limit with 429.
func (rl *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
			return
		}
		c.Next()
	}
}
