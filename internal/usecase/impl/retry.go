package impl

import (
	"context"
	"time"

	"crm/internal/domain/repository"
)

// retryPolicy reruns an operation with a fixed delay while it fails with a transient error.
type retryPolicy struct {
	attempts int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

func newRetryPolicy(attempts int, delay time.Duration) retryPolicy {
	if attempts < 1 {
		attempts = 1
	}

	return retryPolicy{attempts: attempts, delay: delay, sleep: sleepContext}
}

// do calls fn with the 1-based attempt number. onRetry runs before each repeated attempt.
// The last error is returned when attempts are exhausted or the context ends while waiting.
func (p retryPolicy) do(ctx context.Context, fn func(attempt int) error, onRetry func(attempt int, err error)) error {
	var err error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		err = fn(attempt)
		if err == nil || !repository.IsTransient(err) || attempt == p.attempts {
			return err
		}

		if onRetry != nil {
			onRetry(attempt, err)
		}

		if sleepErr := p.sleep(ctx, p.delay); sleepErr != nil {
			return err
		}
	}

	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
