package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker rejects calls after a run
// of consecutive failures.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker protects the model endpoint from hammering during an
// outage. Three consecutive failures open the circuit; after the timeout
// a limited number of probe calls may close it again.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// NewCircuitBreaker creates a breaker with defaults suited to batch
// evaluation runs: trip after 3 failures, stay open for 30 seconds.
func NewCircuitBreaker() *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        "model-api",
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn through the breaker. An open circuit returns
// ErrCircuitOpen without invoking fn.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result, err := cb.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return result, err
}

// State reports the breaker state as "closed", "open" or "half-open".
func (cb *CircuitBreaker) State() string {
	switch cb.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
