// Package httputil provides the HTTP plumbing shared by outbound API
// clients: a retry policy for transient failures and a pacing limiter that
// spaces successive requests to the same upstream.
//
// The two are deliberately separate concerns. The retry [Policy] answers
// "how many times may one request be attempted"; the [Limiter] answers "how
// fast may requests leave the process". Clients compose both.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses, rate limiting)
// with this type so that [Policy.Do] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is marked retryable anywhere in its chain.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy describes how often a single operation may be re-attempted and how
// long to wait between attempts. The delay doubles after each failure.
type Policy struct {
	Attempts int           // total attempts, including the first
	Delay    time.Duration // initial backoff before the second attempt
}

// DefaultPolicy is the retry budget used by provider clients: 3 attempts
// with a 1 second initial delay, doubling each retry.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second}

// Do executes fn up to p.Attempts times. Only errors wrapped with
// [RetryableError] are retried; anything else is returned immediately.
// Returns the last error if every attempt fails, or ctx.Err() if the
// context is cancelled while backing off.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
