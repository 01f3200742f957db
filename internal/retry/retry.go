// Package retry runs an operation a bounded number of times with a delay
// schedule between attempts.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy describes how many attempts to make and how long to wait between
// them. When Delays is shorter than Attempts-1, its last entry repeats.
type Policy struct {
	Attempts int
	Delays   []time.Duration
}

// Fixed waits the same delay between every attempt.
func Fixed(attempts int, delay time.Duration) Policy {
	return Policy{Attempts: attempts, Delays: []time.Duration{delay}}
}

// Backoff doubles the delay after each failed attempt, starting at base.
func Backoff(attempts int, base time.Duration) Policy {
	delays := make([]time.Duration, 0, attempts)
	d := base
	for i := 1; i < attempts; i++ {
		delays = append(delays, d)
		d *= 2
	}
	return Policy{Attempts: attempts, Delays: delays}
}

func (p Policy) delay(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if attempt < len(p.Delays) {
		return p.Delays[attempt]
	}
	return p.Delays[len(p.Delays)-1]
}

// Do calls fn until it succeeds, the attempts are exhausted or ctx is done.
// The last error is returned wrapped. OnRetry, when set, observes each
// failed attempt that will be retried.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error, onRetry ...func(attempt int, err error)) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		for _, cb := range onRetry {
			cb(i+1, err)
		}

		timer := time.NewTimer(p.delay(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %d attempts: %w", i+1, ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
