// Package limits bounds how hard a single client can drive the live runtime.
package limits

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned to clients that send events faster than allowed.
var ErrRateLimited = errors.New("rate limit exceeded")

// TokenBucket keeps one rate.Limiter per key. Keys are socket ids; callers
// Forget a key when its socket goes away.
type TokenBucket struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

// NewTokenBucket allows burst events at once and perSecond events per second
// sustained. A zero rate leaves only the burst.
func NewTokenBucket(perSecond float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Allow takes one token for key.
func (tb *TokenBucket) Allow(key string) bool {
	return tb.AllowN(key, 1)
}

// AllowN takes n tokens for key if available.
func (tb *TokenBucket) AllowN(key string, n int) bool {
	return tb.limiter(key).AllowN(tb.now(), n)
}

func (tb *TokenBucket) limiter(key string) *rate.Limiter {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	l, ok := tb.limiters[key]
	if !ok {
		l = rate.NewLimiter(tb.limit, tb.burst)
		tb.limiters[key] = l
	}
	return l
}

// Forget drops the limiter of key.
func (tb *TokenBucket) Forget(key string) {
	tb.mu.Lock()
	delete(tb.limiters, key)
	tb.mu.Unlock()
}

// Len returns the number of tracked keys.
func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.limiters)
}
