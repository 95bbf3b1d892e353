package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a calls-per-window budget with a sliding window of
// call timestamps. It is the single piece of state shared by all
// collector workers and is safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time

	// now is swappable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a limiter that allows limit calls per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		calls:  make([]time.Time, 0, limit),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// NewPerMinute creates a limiter with a 60-second window.
func NewPerMinute(callsPerMinute int) *Limiter {
	return New(callsPerMinute, time.Minute)
}

// Wait blocks until the caller may make one call under the budget, then
// records the call. It returns early with the context error when ctx is
// cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		wait, ok := l.tryReserve()
		if ok {
			return nil
		}

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryReserve prunes expired timestamps and either records a call (true)
// or reports how long until the oldest timestamp leaves the window.
func (l *Limiter) tryReserve() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Prune timestamps older than the window.
	kept := l.calls[:0]
	for _, t := range l.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.calls = kept

	if len(l.calls) < l.limit {
		l.calls = append(l.calls, now)
		return 0, true
	}

	// Budget exhausted: wait for the oldest call to exit the window.
	wait := l.calls[0].Sub(cutoff)
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait, false
}

// Pending returns the number of calls currently inside the window.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	n := 0
	for _, t := range l.calls {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
