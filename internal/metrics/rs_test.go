package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratings/internal/contracts"
)

// barsFromCloses builds daily bars with the given closes. High/low/open
// track the close and volume is constant unless the test overrides.
func barsFromCloses(closes []float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, len(closes))
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = contracts.PriceBar{
			Ticker: "TEST",
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func flatCloses(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

func TestRSValue(t *testing.T) {
	t.Run("flat prices score zero", func(t *testing.T) {
		rs := RSValue(barsFromCloses(flatCloses(260, 50)))
		require.NotNil(t, rs)
		assert.InDelta(t, 0.0, *rs, 1e-9)
	})

	t.Run("exactly one year of bars", func(t *testing.T) {
		// The minimum history: the 252-day leg anchors on the very
		// first bar.
		rs := RSValue(barsFromCloses(flatCloses(252, 50)))
		require.NotNil(t, rs)
		assert.InDelta(t, 0.0, *rs, 1e-9)
	})

	t.Run("first bar anchors the yearly leg", func(t *testing.T) {
		closes := flatCloses(252, 100)
		closes[0] = 50

		rs := RSValue(barsFromCloses(closes))
		require.NotNil(t, rs)
		// Only the 252-day leg moves: 0.2 * 100.
		assert.InDelta(t, 20.0, *rs, 1e-9)
	})

	t.Run("uniform doubling across all horizons", func(t *testing.T) {
		// Close doubles against every horizon anchor: each ROC is 100,
		// so the weighted sum is 100 regardless of weights.
		closes := flatCloses(253, 100)
		closes[252] = 200

		rs := RSValue(barsFromCloses(closes))
		require.NotNil(t, rs)
		assert.InDelta(t, 100.0, *rs, 1e-9)
	})

	t.Run("recent horizon weighs double", func(t *testing.T) {
		// Only the 63-day anchor sits below the rest: its ROC is 10,
		// the other legs are flat, so rs = 0.4 * 10.
		closes := flatCloses(253, 110)
		closes[253-63] = 100

		rs := RSValue(barsFromCloses(closes))
		require.NotNil(t, rs)
		assert.InDelta(t, 4.0, *rs, 1e-9)
	})

	t.Run("insufficient bars yields nil", func(t *testing.T) {
		assert.Nil(t, RSValue(barsFromCloses(flatCloses(251, 50))))
	})

	t.Run("zero anchor close contributes zero", func(t *testing.T) {
		closes := flatCloses(253, 100)
		closes[253-63] = 0

		rs := RSValue(barsFromCloses(closes))
		require.NotNil(t, rs)
		// The 63-day leg drops out; the other legs are flat.
		assert.InDelta(t, 0.0, *rs, 1e-9)
	})
}

func TestHighDistance52W(t *testing.T) {
	t.Run("at the high", func(t *testing.T) {
		closes := flatCloses(252, 100)
		bars := barsFromCloses(closes)
		// Cancel the synthetic 1% high wick so close == 52w high.
		for i := range bars {
			bars[i].High = bars[i].Close
		}

		dist := HighDistance52W(bars)
		require.NotNil(t, dist)
		assert.Equal(t, 0.0, *dist)
	})

	t.Run("below the high", func(t *testing.T) {
		closes := flatCloses(252, 80)
		bars := barsFromCloses(closes)
		for i := range bars {
			bars[i].High = bars[i].Close
		}
		bars[100].High = 100

		dist := HighDistance52W(bars)
		require.NotNil(t, dist)
		assert.Equal(t, -20.0, *dist)
	})

	t.Run("insufficient bars yields nil", func(t *testing.T) {
		assert.Nil(t, HighDistance52W(barsFromCloses(flatCloses(200, 50))))
	})
}
