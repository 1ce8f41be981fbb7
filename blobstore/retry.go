package blobstore

import (
	"context"
	"time"
)

// maxBackoffShift caps the backoff delay at 1s << 6 = 64s.
const maxBackoffShift = 6

// RetryPolicy governs how often a request is reattempted after a retryable
// failure and how long to wait between attempts. The zero value performs a
// single attempt.
//
// The backoff is pure exponential with no jitter. That is a known
// limitation: many callers retrying in lockstep can stampede the service.
// It is acceptable here because the only consumers are low-concurrency
// maintenance paths.
type RetryPolicy struct {
	// MaxRetries is the number of reattempts after the first failure, so a
	// call performs at most MaxRetries+1 requests.
	MaxRetries uint32

	// Sleep suspends the calling goroutine between attempts. Nil uses a
	// timer honoring ctx cancellation. Tests inject a recorder here to run
	// without wall-clock delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Backoff returns the delay before reattempt number attempt (counted from
// zero): 1s, 2s, 4s, ... capped at 64s.
func (p RetryPolicy) Backoff(attempt uint32) time.Duration {
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	return time.Second << attempt
}

// Do invokes fn until it reports a non-retryable outcome or the budget is
// exhausted, sleeping the backoff delay between attempts. The error of the
// last attempt is returned as-is; fn decides retryability per attempt.
//
// All retry state is local to the call, so any number of Do calls may run
// concurrently on one policy value.
func (p RetryPolicy) Do(ctx context.Context, fn func() (retry bool, err error)) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	for attempt := uint32(0); ; attempt++ {
		retry, err := fn()
		if !retry || attempt >= p.MaxRetries {
			return err
		}
		if serr := sleep(ctx, p.Backoff(attempt)); serr != nil {
			return serr
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
