package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles evaluations per source (an input file, or "-" for
// stdin). Each source gets its own token bucket.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter allowing perSecond evaluations per source.
// A non-positive perSecond means unlimited.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until source may run one more evaluation
func (l *Limiter) Wait(ctx context.Context, source string) error {
	return l.get(source).Wait(ctx)
}

// Allow reports whether source may run an evaluation now, consuming a
// token if so
func (l *Limiter) Allow(source string) bool {
	return l.get(source).Allow()
}

func (l *Limiter) get(source string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[source]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[source]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[source] = limiter

	return limiter
}

// SetSourceRate overrides the rate for one source
func (l *Limiter) SetSourceRate(source string, perSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	l.limiters[source] = rate.NewLimiter(limit, burst)
}
