package db

import (
	"context"
	"errors"
	"time"
)

var ErrUnavailable = errors.New("database is temporarily unavailable")

// Backoff sleeps Step*attempt between attempts.
type Backoff struct {
	Attempts int
	Step     time.Duration
}

var DefaultBackoff = Backoff{Attempts: 3, Step: 100 * time.Millisecond}

// Retry runs fn until it succeeds, fails with a non-transient error, or the
// attempts are used up. Exhaustion returns ErrUnavailable wrapping the last error.
func Retry(ctx context.Context, b Backoff, fn func() error) (int, error) {
	if b.Attempts < 1 {
		b.Attempts = 1
	}

	var err error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		err = fn()
		if err == nil || !IsTransient(err) {
			return attempt, err
		}
		if attempt == b.Attempts {
			break
		}

		timer := time.NewTimer(b.Step * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
	}

	return b.Attempts, errors.Join(ErrUnavailable, err)
}
