package memcache

import (
	"context"
	"time"

	"github.com/contoso/university/internal/port/outbound"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// rateLimiter implements outbound.RateLimiterPort with one token bucket per key.
// Idle buckets are evicted after ten minutes.
type rateLimiter struct {
	limit   rate.Limit
	burst   int
	buckets *expirable.LRU[string, *rate.Limiter]
}

// NewRateLimiter creates an in-process rate limiter allowing rps requests per
// second with the given burst for each key.
func NewRateLimiter(rps float64, burst int, maxKeys int) outbound.RateLimiterPort {
	if burst <= 0 {
		burst = 1
	}
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &rateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		buckets: expirable.NewLRU[string, *rate.Limiter](maxKeys, nil, 10*time.Minute),
	}
}

func (l *rateLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	limiter, ok := l.buckets.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.buckets.Add(key, limiter)
	}

	r := limiter.Reserve()
	if !r.OK() {
		return false, 0, nil
	}
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return false, delay, nil
	}
	return true, 0, nil
}
