package textgen

import (
	"context"

	"github.com/venturelink/match-engine/internal/resilience"
)

// Resilient decorates a Completer with retries and a circuit breaker.
// Missing credentials and other non-transient failures pass through without
// consuming retry attempts.
type Resilient struct {
	inner   Completer
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewResilient wraps inner with the given retry policy and a fresh circuit
// breaker.
func NewResilient(inner Completer, retry resilience.RetryConfig) *Resilient {
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("textgen", "complete")
	}
	return &Resilient{
		inner:   inner,
		retry:   retry,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}
}

// Complete runs the inner completion through the breaker and retry policy.
func (r *Resilient) Complete(ctx context.Context, req Request) (string, error) {
	return resilience.ExecuteVal(ctx, r.breaker, func(ctx context.Context) (string, error) {
		return resilience.DoVal(ctx, r.retry, func(ctx context.Context) (string, error) {
			return r.inner.Complete(ctx, req)
		})
	})
}
