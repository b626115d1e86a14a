// Package ratelimit provides the token-bucket limiter that gates QR
// payload generation per caller key. Validation is never rate limited.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter keeps one token bucket per caller key, created lazily on first
// use. It is an explicit object rather than process-global state so tests
// construct isolated instances.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity float64
	refill   float64 // tokens per second
	now      func() time.Time
}

func NewLimiter(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		refill:   refillPerSec,
		now:      time.Now,
	}
}

// NewLimiterWithClock injects the time source, for tests that step time.
func NewLimiterWithClock(capacity, refillPerSec float64, now func() time.Time) *Limiter {
	l := NewLimiter(capacity, refillPerSec)
	l.now = now
	return l
}

// TryConsume atomically applies the elapsed-time refill and takes one
// token when available. The mutex makes check-and-decrement a single step;
// two concurrent calls can never both observe the same last token.
func (l *Limiter) TryConsume(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.buckets[key] = b
	} else {
		elapsed := now.Sub(b.last).Seconds()
		if elapsed > 0 {
			b.tokens += elapsed * l.refill
			if b.tokens > l.capacity {
				b.tokens = l.capacity
			}
			b.last = now
		}
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
