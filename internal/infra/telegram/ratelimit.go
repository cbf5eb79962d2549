package telegram

import (
	"sync"
	"time"
)

// RateLimiter implements a simple token bucket rate limiter per user
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[int64]*bucket
	rate    int           // messages per window
	window  time.Duration // time window
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter
// rate: maximum messages per window
// window: time window duration
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[int64]*bucket),
		rate:    rate,
		window:  window,
	}
}

// Allow checks if a message from the given user should be processed
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	b, exists := rl.buckets[userID]
	if !exists {
		rl.buckets[userID] = &bucket{
			tokens:    rl.rate - 1,
			lastReset: now,
		}
		return true
	}

	// Reset bucket if window has passed
	if now.Sub(b.lastReset) > rl.window {
		b.tokens = rl.rate
		b.lastReset = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}
