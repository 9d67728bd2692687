package validation

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter per key. The scene
// uses it keyed by shape ID to throttle move-event publication; any
// string key works.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	buckets     map[string]*tokenBucket
	mu          sync.RWMutex
	cleanupTick *time.Ticker
	done        chan struct{}
}

// tokenBucket tracks rate limiting state for a single key
type tokenBucket struct {
	tokens     int
	lastRefill time.Time
	maxTokens  int
	window     time.Duration
	mu         sync.Mutex
}

// NewRateLimiter creates a new rate limiter with specified limits
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		buckets:     make(map[string]*tokenBucket),
		done:        make(chan struct{}),
	}

	// Start cleanup goroutine to remove inactive keys
	rl.cleanupTick = time.NewTicker(window)
	go rl.cleanup()

	return rl
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.RLock()
	bucket, exists := rl.buckets[key]
	rl.mu.RUnlock()

	if !exists {
		// Create new bucket for this key
		bucket = &tokenBucket{
			tokens:     rl.maxRequests,
			lastRefill: time.Now(),
			maxTokens:  rl.maxRequests,
			window:     rl.window,
		}
		rl.mu.Lock()
		rl.buckets[key] = bucket
		rl.mu.Unlock()
	}

	return bucket.consume()
}

// consume attempts to consume a token from the bucket
func (tb *tokenBucket) consume() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()

	// Calculate how many tokens to refill based on elapsed time
	elapsed := now.Sub(tb.lastRefill)
	if elapsed > 0 && tb.tokens < tb.maxTokens {
		// Calculate the fraction of the window that has passed
		windowsPassed := float64(elapsed) / float64(tb.window)
		tokensToAdd := int(float64(tb.maxTokens) * windowsPassed)

		if tokensToAdd > 0 {
			tb.tokens += tokensToAdd
			if tb.tokens > tb.maxTokens {
				tb.tokens = tb.maxTokens
			}
			tb.lastRefill = now
		}
	}

	// Check if we have tokens available
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// cleanup removes inactive keys to prevent memory leaks
func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.removeInactiveKeys()
		case <-rl.done:
			return
		}
	}
}

// removeInactiveKeys removes keys that haven't been active for 2 windows
func (rl *RateLimiter) removeInactiveKeys() {
	cutoff := time.Now().Add(-2 * rl.window)

	rl.mu.Lock()
	for key, bucket := range rl.buckets {
		bucket.mu.Lock()
		if bucket.lastRefill.Before(cutoff) {
			delete(rl.buckets, key)
		}
		bucket.mu.Unlock()
	}
	rl.mu.Unlock()
}

// Close stops the rate limiter and cleans up resources
func (rl *RateLimiter) Close() {
	close(rl.done)
	rl.cleanupTick.Stop()
}
