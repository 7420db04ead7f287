package httpclient

import (
	"context"
	"math"
	"time"
)

const (
	// DefaultTimeout is the default per-attempt timeout
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of retries after the first attempt
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay of the exponential backoff
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay caps the backoff delay
	DefaultMaxRetryDelay = 10 * time.Second
)

// DefaultRetryPolicy returns 3 retries with a 1s base delay capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// BackoffDelay returns min(RetryDelay*2^attempt, MaxRetryDelay). A
// non-positive MaxRetryDelay leaves the delay uncapped.
func BackoffDelay(policy RetryPolicy, attempt int) time.Duration {
	d := policy.RetryDelay
	if d <= 0 {
		return 0
	}
	capped := policy.MaxRetryDelay > 0
	for range max(attempt, 0) {
		if capped && d >= policy.MaxRetryDelay {
			break
		}
		if d > math.MaxInt64/2 {
			d = math.MaxInt64
			break
		}
		d *= 2
	}
	if capped && d > policy.MaxRetryDelay {
		d = policy.MaxRetryDelay
	}
	return d
}

// retryable applies ShouldRetry when set and the default classification otherwise.
func (p RetryPolicy) retryable(e *Error) bool {
	if p.ShouldRetry != nil {
		return p.ShouldRetry(e)
	}
	return IsRetryable(e)
}

// sleep waits for d or until ctx is done, whichever comes first.
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
