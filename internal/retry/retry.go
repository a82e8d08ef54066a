// Package retry wraps remote calls with a bounded fixed-delay retry loop.
package retry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAttempts = 3
	defaultDelay    = 2 * time.Second
)

// Policy controls how a remote call is retried. IsPermanent classifies
// errors that must be propagated immediately without consuming an
// attempt, such as an unknown trading pair.
type Policy struct {
	Attempts    int
	Delay       time.Duration
	IsPermanent func(error) bool
}

// DefaultPolicy returns the policy used when nothing is configured:
// three attempts with a fixed two second delay.
func DefaultPolicy() Policy {
	return Policy{Attempts: defaultAttempts, Delay: defaultDelay}
}

// Do invokes op until it succeeds, a permanent error occurs, the context
// is cancelled, or the attempt budget is exhausted. The first success is
// returned immediately; on exhaustion the last error is returned.
func Do[T any](ctx context.Context, logger *zap.Logger, policy Policy, name string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attempts := policy.Attempts
	if attempts < 1 {
		attempts = defaultAttempts
	}

	var lastErr error
	for remaining := attempts; remaining > 0; remaining-- {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if policy.IsPermanent != nil && policy.IsPermanent(err) {
			return zero, err
		}

		lastErr = err
		if remaining == 1 {
			break
		}

		logger.Warn("remote call failed, will retry",
			zap.String("call", name),
			zap.Int("attempts_left", remaining-1),
			zap.Duration("delay", policy.Delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(policy.Delay):
		}
	}

	logger.Error("remote call failed after all attempts",
		zap.String("call", name),
		zap.Int("attempts", attempts),
		zap.Error(lastErr))

	return zero, lastErr
}
