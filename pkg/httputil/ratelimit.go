package httputil

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Limiter spaces successive operations at least Interval apart, with an
// optional random jitter added on top of each gap. It replaces the
// fixed-sleep-between-calls pacing of a serial scanner while keeping the
// same aggregate request rate under concurrent callers: all workers share
// one Limiter, so fan-out does not multiply the rate seen upstream.
//
// A nil *Limiter never waits, which keeps tests and dry paths simple.
type Limiter struct {
	mu       sync.Mutex
	next     time.Time
	interval time.Duration
	jitter   time.Duration
}

// NewLimiter creates a limiter enforcing interval between operations.
// jitter, if positive, adds a uniformly random extra delay in [0, jitter)
// to each gap so bursts don't land in lockstep.
func NewLimiter(interval, jitter time.Duration) *Limiter {
	return &Limiter{interval: interval, jitter: jitter}
}

// Wait blocks until the caller may proceed, or until ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	at := l.next
	if at.Before(now) {
		at = now
	}
	gap := l.interval
	if l.jitter > 0 {
		gap += rand.N(l.jitter)
	}
	l.next = at.Add(gap)
	l.mu.Unlock()

	wait := at.Sub(now)
	if wait <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
