package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Wait blocks for the given delay or until the context is canceled,
// whichever comes first. It returns an abort error immediately when the
// context is already done, and always releases its timer on exit.
func Wait(ctx context.Context, d time.Duration) error {
	if err := Check(ctx); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Check(ctx)
	case <-timer.C:
		return nil
	}
}

// newBackOff builds a backoff schedule matching the policy: exact doubling
// from InitialDelay, optionally randomized, bounded by MaxRetries.
func newBackOff(ctx context.Context, p Policy) backoff.BackOffContext {
	// BackOff implementations are stateful; always build a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialDelay
	bo.Multiplier = 2
	bo.MaxInterval = p.InitialDelay << uint(p.MaxRetries)
	bo.MaxElapsedTime = 0
	if p.Jitter {
		bo.RandomizationFactor = backoff.DefaultRandomizationFactor
	} else {
		bo.RandomizationFactor = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(p.MaxRetries)), ctx)
}

// Do runs op with bounded exponential backoff. Transient errors (per
// IsRetryable) are retried up to Policy.MaxRetries times; abort errors and
// non-retryable errors stop immediately and are returned as-is. Once retries
// are exhausted the result is an ExhaustedError wrapping the final failure.
func Do(ctx context.Context, p Policy, op func() error) error {
	p.applyDefaults()

	attempts := 0
	wrapped := func() error {
		if err := Check(ctx); err != nil {
			return backoff.Permanent(err)
		}
		attempts++
		err := op()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(wrapped, newBackOff(ctx, p))
	if err == nil {
		return nil
	}
	if !IsRetryable(err) {
		return err
	}
	return &ExhaustedError{Attempts: attempts, Err: err}
}
