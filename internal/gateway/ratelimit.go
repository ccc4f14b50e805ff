package gateway

import (
	"sync"
	"time"
)

// RateWindow is the sliding window length for the request rate limiter.
const RateWindow = 60 * time.Second

// RateLimiter is a process-wide sliding-window counter gating how many
// requests the gateway accepts per window. It is a single shared throttle,
// not per-caller: the gateway has no caller identity, and the threat model
// is accidental overload. The prune-then-append sequence runs under one lock
// so concurrent checks cannot push the window past capacity.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	accepted []time.Time

	// now is replaceable for tests.
	now func() time.Time
}

// NewRateLimiter creates a limiter accepting capacity requests per
// RateWindow.
func NewRateLimiter(capacity int) *RateLimiter {
	return &RateLimiter{
		capacity: capacity,
		window:   RateWindow,
		now:      time.Now,
	}
}

// Allow records and accepts the current request if the window has room.
// A rejected request is not recorded; only accepted requests count against
// the window.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	// Lazy prune: drop timestamps that have aged out of the window.
	kept := r.accepted[:0]
	for _, t := range r.accepted {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	r.accepted = kept

	if len(r.accepted) >= r.capacity {
		return false
	}

	r.accepted = append(r.accepted, now)
	return true
}

// Capacity returns the configured window capacity.
func (r *RateLimiter) Capacity() int {
	return r.capacity
}
