// Package retry provides the single retry/backoff helper shared by both
// provider capabilities. Callers parameterize the attempt limit, the delay
// function, and the predicate deciding which errors are worth retrying.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Policy defines retry behavior for one provider capability.
type Policy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	// Delay returns how long to wait before attempt n (1-based).
	Delay func(attempt int) time.Duration
	// Retryable reports whether the error is transient. A nil predicate
	// retries every error.
	Retryable func(err error) bool
}

// Linear returns a delay function that grows as base * attempt, the backoff
// shape the original data fetcher used.
func Linear(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// Do executes fn up to 1+MaxRetries times, sleeping between attempts per the
// policy. It stops early when the error is not retryable or the context is
// cancelled, and returns the last error when all attempts fail.
func Do(ctx context.Context, p Policy, logger *slog.Logger, operation string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxRetries+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry: %s cancelled: %w", operation, err)
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "operation succeeded after retries",
					slog.String("operation", operation),
					slog.Int("attempts", attempt),
				)
			}
			return nil
		}

		if p.Retryable != nil && !p.Retryable(lastErr) {
			logger.WarnContext(ctx, "operation failed with non-retryable error",
				slog.String("operation", operation),
				slog.String("error", lastErr.Error()),
			)
			return lastErr
		}

		if attempt == p.MaxRetries+1 {
			break
		}

		delay := time.Duration(0)
		if p.Delay != nil {
			delay = p.Delay(attempt)
		}

		logger.WarnContext(ctx, "operation failed, retrying",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", p.MaxRetries),
			slog.Duration("retry_in", delay),
			slog.String("error", lastErr.Error()),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry: %s cancelled: %w", operation, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("retry: %s failed after %d attempts: %w", operation, p.MaxRetries+1, lastErr)
}
