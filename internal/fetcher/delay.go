package fetcher

import (
	"context"
	"time"
)

// DelayPolicy returns how long to wait before the attempt-th network request of
// a batch, counting from 1.
type DelayPolicy func(attempt int) time.Duration

// FixedDelay waits d before every request.
func FixedDelay(d time.Duration) DelayPolicy {
	return func(int) time.Duration { return d }
}

// NoDelay never waits.
func NoDelay() DelayPolicy {
	return FixedDelay(0)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
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
