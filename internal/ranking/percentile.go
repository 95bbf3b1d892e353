package ranking

import (
	"math"
	"sort"
)

// Rank assigns each key a percentile in (0, 100] based on the ascending
// order of its value: pct = (index+1) / total * 100, rounded to two
// decimals. Higher values earn higher percentiles. Keys with nil or NaN
// values are excluded and absent from the result.
func Rank(values map[string]*float64) map[string]float64 {
	type entry struct {
		key   string
		value float64
	}

	entries := make([]entry, 0, len(values))
	for key, v := range values {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		entries = append(entries, entry{key: key, value: *v})
	}
	if len(entries) == 0 {
		return map[string]float64{}
	}

	// Stable sort keeps ties deterministic across runs.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].value == entries[j].value {
			return entries[i].key < entries[j].key
		}
		return entries[i].value < entries[j].value
	})

	total := float64(len(entries))
	ranks := make(map[string]float64, len(entries))
	for i, e := range entries {
		ranks[e.key] = Round2(float64(i+1) / total * 100)
	}
	return ranks
}

// TemporalRank returns the percentile of the final element of series
// within the whole series: the share of elements less than or equal to
// it, times 100, rounded to two decimals. An empty series yields 0.
func TemporalRank(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}

	latest := series[len(series)-1]
	count := 0
	for _, v := range series {
		if v <= latest {
			count++
		}
	}
	return Round2(float64(count) / float64(len(series)) * 100)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
