package languagetool

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultBackoff applies when a 429 carries no usable Retry-After.
const defaultBackoff = 60 * time.Second

// rateLimiter throttles requests with a token bucket and honours the
// backoff a 429 response asks for.
type rateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// newRateLimiter allows perMinute requests per minute with a burst of a
// tenth of that. perMinute <= 0 disables throttling.
func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute <= 0 {
		return &rateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	burst := max(1, perMinute/10)
	return &rateLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), burst),
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// backOff delays further requests by the Retry-After header value, which
// LanguageTool sends in seconds.
func (r *rateLimiter) backOff(retryAfter string) {
	delay := defaultBackoff
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		delay = time.Duration(secs) * time.Second
	}

	r.mu.Lock()
	r.retryAt = time.Now().Add(delay)
	r.mu.Unlock()
}
