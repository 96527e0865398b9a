package http

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter rate limits requests per host using token buckets. Requests
// to different hosts do not wait for each other.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second to
// each host, with a burst of 1. A non-positive rps disables limiting.
func NewHostLimiter(rps float64) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.rps <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}

// BackoffDelays returns n delays doubling from one second: 1s, 2s, 4s, ...
func BackoffDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	for i := range max(n, 0) {
		delays = append(delays, time.Second<<i)
	}
	return delays
}
