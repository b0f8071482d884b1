package middleware

import (
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedKeys caps the limiter map so rotating account ids can't grow
// memory without bound.
const maxTrackedKeys = 4096

// KeyLimiter rate-limits webhook deliveries per platform account id.
// Safe for concurrent use.
type KeyLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewKeyLimiter allows perMinute deliveries per key with a matching burst.
func NewKeyLimiter(perMinute int) *KeyLimiter {
	if perMinute <= 0 {
		perMinute = 100
	}
	return &KeyLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
	}
}

// Allow reports whether the key may proceed.
func (k *KeyLimiter) Allow(key string) bool {
	k.mu.Lock()
	l, ok := k.limiters[key]
	if !ok {
		if len(k.limiters) >= maxTrackedKeys {
			// hard eviction, FIFO-ish via map iteration
			for old := range k.limiters {
				delete(k.limiters, old)
				break
			}
		}
		l = rate.NewLimiter(k.limit, k.burst)
		k.limiters[key] = l
	}
	k.mu.Unlock()

	return l.Allow()
}
