package impl

import (
	"context"
	"testing"
	"time"

	"crm/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleepPolicy(attempts int) retryPolicy {
	p := newRetryPolicy(attempts, time.Second)
	p.sleep = func(context.Context, time.Duration) error { return nil }

	return p
}

func TestRetryPolicy_RetriesTransientUntilSuccess(t *testing.T) {
	p := noSleepPolicy(3)

	var calls, retries int
	err := p.do(context.Background(), func(attempt int) error {
		calls++
		if attempt < 3 {
			return repository.MarkTransient(errors.New("connection reset"))
		}

		return nil
	}, func(int, error) { retries++ })

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestRetryPolicy_StopsOnPermanentError(t *testing.T) {
	p := noSleepPolicy(3)

	calls := 0
	err := p.do(context.Background(), func(int) error {
		calls++

		return repository.ErrInsufficientStock
	}, nil)

	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_ReturnsLastTransientError(t *testing.T) {
	p := noSleepPolicy(3)

	calls := 0
	err := p.do(context.Background(), func(int) error {
		calls++

		return repository.MarkTransient(errors.New("timeout"))
	}, nil)

	assert.True(t, repository.IsTransient(err))
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_ContextCancelledWhileWaiting(t *testing.T) {
	p := newRetryPolicy(5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := p.do(ctx, func(int) error {
		calls++

		return repository.MarkTransient(errors.New("timeout"))
	}, nil)

	assert.True(t, repository.IsTransient(err))
	assert.Equal(t, 1, calls)
}

func TestNewRetryPolicy_AtLeastOneAttempt(t *testing.T) {
	assert.Equal(t, 1, newRetryPolicy(0, 0).attempts)
}
