package usecase

import (
	"context"
	"time"
)

// RetryPolicy bounds retries against the rate-limited matching service.
// Injected into the scoring engine so pacing behaviour is testable without
// real network calls.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy retries once after a backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		Backoff:     500 * time.Millisecond,
	}
}

// Do runs fn up to MaxAttempts times, sleeping Backoff between attempts.
// retryable decides whether an error is worth another attempt; context
// cancellation always stops the loop.
func (p RetryPolicy) Do(ctx context.Context, fn func() error, retryable func(error) bool) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff):
		}
	}
	return err
}
