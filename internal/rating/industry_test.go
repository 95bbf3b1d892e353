package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/ratings/internal/contracts"
)

func TestIndustryGroupRS(t *testing.T) {
	profiles := map[string]contracts.Profile{
		"SW1": {Ticker: "SW1", Sector: "Technology", Industry: "Software"},
		"SW2": {Ticker: "SW2", Sector: "Technology", Industry: "Software"},
		"SW3": {Ticker: "SW3", Sector: "Technology", Industry: "Software"},
		"BK1": {Ticker: "BK1", Sector: "Financials", Industry: "Banks"},
		"BK2": {Ticker: "BK2", Sector: "Financials", Industry: "Banks"},
		"BK3": {Ticker: "BK3", Sector: "Financials", Industry: "Banks"},
		"RX1": {Ticker: "RX1", Sector: "Healthcare", Industry: "Pharma"},
		"RX2": {Ticker: "RX2", Sector: "Healthcare", Industry: "Pharma"},
	}

	rsValues := map[string]float64{
		"SW1": 90, "SW2": 80, "SW3": 70, // avg 80
		"BK1": 30, "BK2": 20, "BK3": 10, // avg 20
		"RX1": 99, "RX2": 99, // only two members
	}

	t.Run("members inherit their industry percentile", func(t *testing.T) {
		result := IndustryGroupRS(profiles, rsValues)

		// Two ranked industries: banks at 50, software at 100.
		assert.Equal(t, 100.0, result["SW1"])
		assert.Equal(t, 100.0, result["SW2"])
		assert.Equal(t, 100.0, result["SW3"])
		assert.Equal(t, 50.0, result["BK1"])
		assert.Equal(t, 50.0, result["BK3"])
	})

	t.Run("industries below three members are excluded", func(t *testing.T) {
		result := IndustryGroupRS(profiles, rsValues)

		_, ok := result["RX1"]
		assert.False(t, ok)
	})

	t.Run("sector substitutes for missing industry", func(t *testing.T) {
		p := map[string]contracts.Profile{
			"A1": {Ticker: "A1", Sector: "Energy"},
			"A2": {Ticker: "A2", Sector: "Energy"},
			"A3": {Ticker: "A3", Sector: "Energy"},
		}
		rs := map[string]float64{"A1": 10, "A2": 20, "A3": 30}

		result := IndustryGroupRS(p, rs)
		assert.Equal(t, 100.0, result["A1"])
	})

	t.Run("tickers without profiles are skipped", func(t *testing.T) {
		rs := map[string]float64{"GHOST": 50}
		assert.Empty(t, IndustryGroupRS(map[string]contracts.Profile{}, rs))
	})
}
