package metrics

import (
	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/internal/ranking"
)

const high52wBars = 252

// HighDistance52W measures how far the latest close sits below the
// trailing 52-week high, as a percentage (zero or negative for any
// instrument not closing at a new high). Returns nil with fewer than a
// year of bars or a zero high.
func HighDistance52W(bars []contracts.PriceBar) *float64 {
	if len(bars) < high52wBars {
		return nil
	}

	window := bars[len(bars)-high52wBars:]
	high := 0.0
	for _, bar := range window {
		if bar.High > high {
			high = bar.High
		}
	}
	if high == 0 {
		return nil
	}

	last := bars[len(bars)-1].Close
	return contracts.Float(ranking.Round2((last - high) / high * 100))
}
