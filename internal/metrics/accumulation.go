package metrics

import (
	"math"

	"github.com/wonny/ratings/internal/contracts"
)

const (
	adWindow     = 65
	adRangeEps   = 0.0001
	adWeightLow  = 0.5
	adWeightHigh = 1.5
)

// ADGrade grades institutional accumulation versus distribution over the
// trailing quarter of daily bars. Recent days weigh more than old ones.
// Returns GradeC when the window holds only up days or only down days,
// and empty when there are not enough bars.
func ADGrade(bars []contracts.PriceBar) contracts.ADGrade {
	if len(bars) < adWindow {
		return ""
	}
	window := bars[len(bars)-adWindow:]

	// Money flow volume per bar: the close's position in the day's
	// range, times volume.
	flows := make([]float64, len(window))
	totalFlow := 0.0
	for i, bar := range window {
		rng := bar.High - bar.Low
		if rng == 0 {
			rng = adRangeEps
		}
		multiplier := ((bar.Close - bar.Low) - (bar.High - bar.Close)) / rng
		flows[i] = multiplier * bar.Volume
		totalFlow += flows[i]
	}

	// Day-over-day close direction splits bars[1:] into up and down
	// days, each with a recency weight rising linearly across the window.
	n := len(window)
	var upFlows, upWeights, downFlows, downWeights []float64
	for i := 1; i < n; i++ {
		weight := adWeightLow + (adWeightHigh-adWeightLow)*float64(i-1)/float64(n-2)
		change := window[i].Close - window[i-1].Close
		switch {
		case change > 0:
			upFlows = append(upFlows, flows[i])
			upWeights = append(upWeights, weight)
		case change < 0:
			downFlows = append(downFlows, flows[i])
			downWeights = append(downWeights, weight)
		}
	}
	if len(upFlows) == 0 || len(downFlows) == 0 {
		return contracts.GradeC
	}

	meanFlow := math.Abs(totalFlow / float64(n))
	normalized := 0.0
	if meanFlow != 0 {
		normalized = totalFlow / (meanFlow * float64(n))
	}

	wUp := weightedMean(upFlows, upWeights)
	wDown := weightedMean(downFlows, downWeights)
	volRatio := 1.0
	if wDown != 0 {
		volRatio = wUp / math.Abs(wDown)
	}

	combined := normalized*0.6 + (volRatio-1)*0.4
	return gradeFromScore(combined)
}

func weightedMean(values, weights []float64) float64 {
	sum, wsum := 0.0, 0.0
	for i, v := range values {
		sum += v * weights[i]
		wsum += weights[i]
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}

func gradeFromScore(score float64) contracts.ADGrade {
	switch {
	case score >= 0.40:
		return contracts.GradeA
	case score >= 0.15:
		return contracts.GradeB
	case score >= -0.15:
		return contracts.GradeC
	case score >= -0.40:
		return contracts.GradeD
	default:
		return contracts.GradeE
	}
}
