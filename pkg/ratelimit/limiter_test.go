package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the limiter without real sleeps: sleeping advances
// the clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) wire(l *Limiter) *fakeClock {
	l.now = func() time.Time { return c.now }
	l.sleep = func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.now = c.now.Add(d)
		return nil
	}
	return c
}

func TestLimiterWait(t *testing.T) {
	t.Run("allows up to the limit without waiting", func(t *testing.T) {
		l := New(3, time.Minute)
		clock := newFakeClock().wire(l)
		start := clock.now

		for i := 0; i < 3; i++ {
			require.NoError(t, l.Wait(context.Background()))
		}

		assert.Equal(t, start, clock.now, "no sleep expected under budget")
		assert.Equal(t, 3, l.Pending())
	})

	t.Run("blocks until the oldest call leaves the window", func(t *testing.T) {
		l := New(2, time.Minute)
		clock := newFakeClock().wire(l)
		start := clock.now

		require.NoError(t, l.Wait(context.Background()))
		clock.now = clock.now.Add(10 * time.Second)
		require.NoError(t, l.Wait(context.Background()))

		// Third call must wait until the first timestamp expires.
		require.NoError(t, l.Wait(context.Background()))
		assert.False(t, clock.now.Before(start.Add(time.Minute)),
			"third call should land once the first leaves the window")
	})

	t.Run("sliding window frees capacity gradually", func(t *testing.T) {
		l := New(2, time.Minute)
		clock := newFakeClock().wire(l)

		require.NoError(t, l.Wait(context.Background()))
		require.NoError(t, l.Wait(context.Background()))
		assert.Equal(t, 2, l.Pending())

		clock.now = clock.now.Add(61 * time.Second)
		assert.Equal(t, 0, l.Pending())

		start := clock.now
		require.NoError(t, l.Wait(context.Background()))
		assert.Equal(t, start, clock.now, "freed capacity needs no sleep")
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		l := New(1, time.Minute)
		newFakeClock().wire(l)

		require.NoError(t, l.Wait(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
	})
}

func TestNewPerMinute(t *testing.T) {
	l := NewPerMinute(750)
	assert.Equal(t, 750, l.limit)
	assert.Equal(t, time.Minute, l.window)
}
