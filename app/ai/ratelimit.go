package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles outbound completion service calls to one call per
// minimum interval. A single instance is shared by every caller in the
// process.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter granting one call per minInterval
func NewLimiter(minInterval time.Duration) *Limiter {
	if minInterval <= 0 {
		minInterval = 500 * time.Millisecond
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Wait blocks until the next call slot is available, respecting the context
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
