package rating

import "github.com/wonny/ratings/internal/ranking"

// Component is one weighted percentile input to a combined score.
type Component struct {
	Ranks  map[string]float64
	Weight float64
}

// Combine merges weighted percentile maps into one score per ticker.
// A ticker scores over the union of maps it appears in: weights of
// missing components are renormalized away rather than counted as zero,
// so an instrument is never punished for a metric its data cannot
// support. Scores are rounded to two decimals.
func Combine(components []Component) map[string]float64 {
	tickers := make(map[string]struct{})
	for _, c := range components {
		for ticker := range c.Ranks {
			tickers[ticker] = struct{}{}
		}
	}

	scores := make(map[string]float64, len(tickers))
	for ticker := range tickers {
		score, weightSum := 0.0, 0.0
		for _, c := range components {
			if pct, ok := c.Ranks[ticker]; ok {
				score += pct * c.Weight
				weightSum += c.Weight
			}
		}
		if weightSum > 0 {
			scores[ticker] = ranking.Round2(score / weightSum)
		}
	}
	return scores
}

// QuintileGrade maps a 0-100 score to the A-E letter scale in fixed
// 20-point bands.
func QuintileGrade(score float64) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	case score >= 20:
		return "D"
	default:
		return "E"
	}
}

// gradeScores maps A-E letters back onto the 0-100 scale for use as
// composite inputs.
var gradeScores = map[string]float64{
	"A": 100,
	"B": 75,
	"C": 50,
	"D": 25,
	"E": 0,
}
