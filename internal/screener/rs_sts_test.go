package screener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratings/internal/contracts"
)

func dailyBars(ticker string, closes []float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, len(closes))
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = contracts.PriceBar{
			Ticker: ticker,
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 500_000,
		}
	}
	return bars
}

func TestRSSTS(t *testing.T) {
	t.Run("rising ratio ranks 100", func(t *testing.T) {
		target := make([]float64, 30)
		bench := make([]float64, 30)
		for i := range target {
			target[i] = 100 + float64(i) // outpaces a flat benchmark
			bench[i] = 100
		}

		pct := RSSTS(dailyBars("TGT", target), dailyBars("SPY", bench))
		require.NotNil(t, pct)
		assert.Equal(t, 100.0, *pct)
	})

	t.Run("falling ratio ranks at the bottom", func(t *testing.T) {
		target := make([]float64, 30)
		bench := make([]float64, 30)
		for i := range target {
			target[i] = 100 - float64(i)
			bench[i] = 100
		}

		pct := RSSTS(dailyBars("TGT", target), dailyBars("SPY", bench))
		require.NotNil(t, pct)
		assert.Equal(t, 4.0, *pct)
	})

	t.Run("fewer than 25 shared dates yields nil", func(t *testing.T) {
		target := dailyBars("TGT", make([]float64, 24))
		bench := dailyBars("SPY", make([]float64, 30))
		for i := range target {
			target[i].Close = 100
		}
		for i := range bench {
			bench[i].Close = 100
		}

		assert.Nil(t, RSSTS(target, bench))
	})

	t.Run("join is by date not position", func(t *testing.T) {
		// Target misses every other benchmark date; only 15 overlap.
		bench := dailyBars("SPY", flatSeries(30, 100))
		target := dailyBars("TGT", flatSeries(30, 100))
		var sparse []contracts.PriceBar
		for i, bar := range target {
			if i%2 == 0 {
				sparse = append(sparse, bar)
			}
		}

		assert.Nil(t, RSSTS(sparse, bench))
	})

	t.Run("zero benchmark close in window yields nil", func(t *testing.T) {
		benchCloses := flatSeries(30, 100)
		benchCloses[29] = 0

		assert.Nil(t, RSSTS(dailyBars("TGT", flatSeries(30, 100)), dailyBars("SPY", benchCloses)))
	})

	t.Run("zero benchmark close outside window is ignored", func(t *testing.T) {
		benchCloses := flatSeries(30, 100)
		benchCloses[0] = 0 // before the 25-day window

		pct := RSSTS(dailyBars("TGT", flatSeries(30, 100)), dailyBars("SPY", benchCloses))
		require.NotNil(t, pct)
		assert.Equal(t, 100.0, *pct)
	})
}

func flatSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
