package infrastructure

import (
	"sync"
	"time"
)

// AddressRateLimiter implements sliding-window rate limiting per caller
// address. State is in-memory only: it resets on restart and is not shared
// across instances, so this is a best-effort throttle.
type AddressRateLimiter struct {
	mu          sync.Mutex
	hits        map[string][]time.Time
	limit       int
	window      time.Duration
	cleanupTick time.Duration
}

// NewAddressRateLimiter creates a limiter allowing at most limit requests
// per rolling window per address.
func NewAddressRateLimiter(limit int, window time.Duration) *AddressRateLimiter {
	rl := &AddressRateLimiter{
		hits:        make(map[string][]time.Time),
		limit:       limit,
		window:      window,
		cleanupTick: 5 * time.Minute,
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// Allow checks if the address may make another request. The request is
// recorded only when allowed, so rejected calls do not extend the window.
func (rl *AddressRateLimiter) Allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	recent := rl.hits[addr][:0]
	for _, t := range rl.hits[addr] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.hits[addr] = recent
		return false
	}

	rl.hits[addr] = append(recent, now)
	return true
}

// Reset clears rate limit state for an address.
func (rl *AddressRateLimiter) Reset(addr string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.hits, addr)
}

// cleanup removes addresses with no recent activity periodically.
func (rl *AddressRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.window)
		for addr, times := range rl.hits {
			if len(times) == 0 || !times[len(times)-1].After(cutoff) {
				delete(rl.hits, addr)
			}
		}
		rl.mu.Unlock()
	}
}

// GetStats returns rate limiter statistics.
func (rl *AddressRateLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"active_addresses": len(rl.hits),
		"limit":            rl.limit,
		"window_seconds":   rl.window.Seconds(),
	}
}
