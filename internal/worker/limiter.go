package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-model rate limiting toward the LLM provider.
// Different models share one provider but can have different quotas, so
// each model name gets its own token bucket.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with the given default rate and burst.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the bucket for the given model has a token, or the
// context is cancelled.
func (l *Limiter) Wait(ctx context.Context, modelName string) error {
	return l.getLimiter(modelName).Wait(ctx)
}

// Allow reports whether a request for the model may proceed right now.
func (l *Limiter) Allow(modelName string) bool {
	return l.getLimiter(modelName).Allow()
}

// SetModelRate overrides the rate for one model.
func (l *Limiter) SetModelRate(modelName string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters[modelName] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) getLimiter(modelName string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[modelName]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[modelName]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[modelName] = limiter
	return limiter
}
