package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork wraps failures to reach a remote backend. Operations failing
	// with it are retried.
	ErrNetwork = errors.New("cache backend unreachable")

	// ErrCorrupt is returned when a stored value cannot be decoded.
	ErrCorrupt = errors.New("corrupt cache entry")
)

// backoff is a retry schedule for remote backends: up to attempts calls,
// with the pause doubling after each failure.
type backoff struct {
	attempts int
	delay    time.Duration
}

var redisBackoff = backoff{attempts: 3, delay: 200 * time.Millisecond}

// do calls fn until it succeeds, fails with an error other than
// [ErrNetwork], or the schedule runs out. It gives up early when ctx ends.
func (b backoff) do(ctx context.Context, fn func() error) error {
	delay := b.delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, ErrNetwork) || attempt >= b.attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
