package retry

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxRetries: 3, Delay: Linear(time.Millisecond)}, testLogger(), "op", func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxRetries: 3, Delay: Linear(time.Millisecond)}, testLogger(), "op", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Do(context.Background(), Policy{MaxRetries: 2, Delay: Linear(time.Millisecond)}, testLogger(), "op", func(ctx context.Context) error {
		calls++
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls) // 1 initial + 2 retries
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("bad payload")
	calls := 0
	p := Policy{
		MaxRetries: 5,
		Delay:      Linear(time.Millisecond),
		Retryable:  func(err error) bool { return !errors.Is(err, fatal) },
	}
	err := Do(context.Background(), p, testLogger(), "op", func(ctx context.Context) error {
		calls++
		return fatal
	})
	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{MaxRetries: 10, Delay: Linear(time.Hour)}, testLogger(), "op", func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestLinearDelayGrowsWithAttempt(t *testing.T) {
	d := Linear(5 * time.Second)
	assert.Equal(t, 5*time.Second, d(1))
	assert.Equal(t, 10*time.Second, d(2))
	assert.Equal(t, 15*time.Second, d(3))
}
