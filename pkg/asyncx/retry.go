package asyncx

import (
	"context"
	"time"
)

// RetryWithBackoff calls fn up to attempts times with exponential backoff
// starting at initialDelay. The delay doubles after each failed attempt.
// Respects context cancellation between retries.
func RetryWithBackoff[T any](
	ctx context.Context,
	attempts int,
	initialDelay time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	var (
		zero  T
		err   error
		val   T
		delay = initialDelay
	)
	if attempts <= 0 {
		attempts = 1
	}

	for i := range attempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return zero, err
			}
			return zero, ctxErr
		}

		val, err = fn(ctx)
		if err == nil {
			return val, nil
		}

		if i < attempts-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, err
			case <-timer.C:
				delay *= 2
			}
		}
	}
	return zero, err
}
