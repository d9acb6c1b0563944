package action

import (
	"context"
	"time"

	"piccolo/internal/backend"

	"github.com/cenkalti/backoff/v5"
)

// retryPolicy is the bounded exponential retry for BackendUnavailable/
// BackendTimeout described in §9's Open Question resolution: 3 attempts,
// 50ms base delay.
func retryPolicy() []backoff.RetryOption {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 50 * time.Millisecond
	return []backoff.RetryOption{
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(3),
	}
}

// withRetry runs fn, retrying on BackendUnavailable or a backend.TimeoutError,
// and gives up immediately on any other error.
func withRetry(ctx context.Context, fn func() error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := fn()
		if err == nil {
			return struct{}{}, nil
		}
		if IsBackendUnavailable(err) {
			return struct{}{}, err
		}
		var te *backend.TimeoutError
		if asTimeoutError(err, &te) {
			return struct{}{}, err
		}
		// Not a retryable condition: wrap as a permanent error so
		// backoff.Retry stops immediately instead of burning attempts.
		return struct{}{}, backoff.Permanent(err)
	}, retryPolicy()...)
	return err
}

func asTimeoutError(err error, target **backend.TimeoutError) bool {
	te, ok := err.(*backend.TimeoutError)
	if ok {
		*target = te
	}
	return ok
}
