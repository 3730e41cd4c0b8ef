// Package ratelimit provides a keyed token-bucket rate limiter. The
// cover fetcher keys it by remote host so a slow image provider never
// sees request bursts, and the API keys it by client address.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// evictAfter is how long an idle key's limiter is kept before the
// cleanup pass drops it.
const evictAfter = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// KeyedLimiter manages per-key rate limiting. Each unique key gets its
// own independent token bucket.
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed rate limiter.
// rps: requests per second allowed per key.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *KeyedLimiter {
	kl := &KeyedLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}

	go kl.cleanupLoop()

	return kl
}

// Allow reports whether a request for the given key may proceed now.
// Use for inbound request protection.
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or the
// context is canceled. Use for outbound requests that should respect
// the remote side's limits.
func (kl *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return kl.getLimiter(key).Wait(ctx)
}

func (kl *KeyedLimiter) getLimiter(key string) *rate.Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	e, ok := kl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(kl.limit, kl.burst)}
		kl.entries[key] = e
	}
	e.lastUsed = time.Now()
	return e.limiter
}

// Stop shuts down the cleanup goroutine.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() {
		close(kl.done)
	})
}

// cleanupLoop periodically drops limiters for keys that have gone
// idle, bounding memory when the API is keyed by client address.
func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(evictAfter / 2)
	defer ticker.Stop()

	for {
		select {
		case <-kl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-evictAfter)
			kl.mu.Lock()
			for key, e := range kl.entries {
				if e.lastUsed.Before(cutoff) {
					delete(kl.entries, key)
				}
			}
			kl.mu.Unlock()
		}
	}
}
