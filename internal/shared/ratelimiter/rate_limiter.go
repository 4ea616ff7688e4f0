// Package ratelimiter provides a simple fixed-window rate limiter for
// outbound API calls.
package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface limits the frequency of an operation, typically
// calls to an external API with a per-minute quota.
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter counts calls in a fixed window and blocks once the limit
// is reached until the window rolls over.
type RateLimiter struct {
	limit    int
	interval time.Duration

	mu        sync.Mutex
	count     int
	lastReset time.Time
}

// NewRateLimiter creates a limiter allowing limit calls per interval.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeeded blocks until the current call fits in the window.
func (rl *RateLimiter) WaitIfNeeded() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			slog.Warn("rate limit reached, sleeping", "limit", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
