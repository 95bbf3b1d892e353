package metrics

import "github.com/wonny/ratings/internal/contracts"

// Rate-of-change horizons and their weights in the relative strength
// value. The most recent quarter counts double.
var rsHorizons = []struct {
	period int
	weight float64
}{
	{63, 0.4},
	{126, 0.2},
	{189, 0.2},
	{252, 0.2},
}

const minRSBars = 252

// RSValue computes the weighted multi-horizon rate of change from daily
// closes. Returns nil when fewer than a year of bars is available.
func RSValue(bars []contracts.PriceBar) *float64 {
	if len(bars) < minRSBars {
		return nil
	}

	value := 0.0
	for _, h := range rsHorizons {
		value += h.weight * rateOfChange(bars, h.period)
	}
	return contracts.Float(value)
}

// rateOfChange is the percent change of the last close against the
// close `period` bars earlier. A zero anchor close contributes zero.
func rateOfChange(bars []contracts.PriceBar, period int) float64 {
	last := bars[len(bars)-1].Close
	anchor := bars[len(bars)-period].Close
	if anchor == 0 {
		return 0
	}
	return (last/anchor - 1) * 100
}
