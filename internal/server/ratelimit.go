package server

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter caps requests per minute for each client IP. It is
// deliberately simple: a fixed window that resets a client's counter one
// minute after their first request in the window.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerMinute int
	clients           map[string]*clientWindow
}

// clientWindow tracks usage for a single client within the current window.
type clientWindow struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute requests
// per client. A limit of zero or less disables counting entirely.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		clients:           make(map[string]*clientWindow),
	}
}

// Allow records a request from the given client and returns a RateLimitError
// when the client exceeded its per-minute budget.
func (rl *RateLimiter) Allow(clientID string) error {
	if rl.requestsPerMinute <= 0 {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.clients[clientID]
	if !ok || now.Sub(w.windowStart) >= time.Minute {
		rl.clients[clientID] = &clientWindow{count: 1, windowStart: now}
		return nil
	}

	if w.count >= rl.requestsPerMinute {
		return &RateLimitError{
			Limit:      rl.requestsPerMinute,
			RetryAfter: time.Minute - now.Sub(w.windowStart),
		}
	}
	w.count++
	return nil
}

// Requests returns the request count in the current window for a client.
func (rl *RateLimiter) Requests(clientID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[clientID]
	if !ok || time.Since(w.windowStart) >= time.Minute {
		return 0
	}
	return w.count
}

// RateLimitError represents a rate limit violation.
type RateLimitError struct {
	Limit      int           // the limit that was exceeded
	RetryAfter time.Duration // how long to wait before retrying
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (limit: %d/min, retry after: %v)", e.Limit, e.RetryAfter)
}
