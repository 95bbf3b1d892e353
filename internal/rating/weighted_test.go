package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	t.Run("weighted mean over all components", func(t *testing.T) {
		scores := Combine([]Component{
			{Ranks: map[string]float64{"AAA": 100}, Weight: 0.5},
			{Ranks: map[string]float64{"AAA": 50}, Weight: 0.3},
			{Ranks: map[string]float64{"AAA": 0}, Weight: 0.2},
		})

		// (100*0.5 + 50*0.3 + 0*0.2) / 1.0
		assert.Equal(t, 65.0, scores["AAA"])
	})

	t.Run("missing components renormalize", func(t *testing.T) {
		scores := Combine([]Component{
			{Ranks: map[string]float64{"AAA": 80}, Weight: 0.5},
			{Ranks: map[string]float64{}, Weight: 0.3},
			{Ranks: map[string]float64{"AAA": 40}, Weight: 0.2},
		})

		// (80*0.5 + 40*0.2) / 0.7
		assert.InDelta(t, 68.57, scores["AAA"], 0.01)
	})

	t.Run("ticker present in any component gets a score", func(t *testing.T) {
		scores := Combine([]Component{
			{Ranks: map[string]float64{"AAA": 90}, Weight: 0.5},
			{Ranks: map[string]float64{"BBB": 30}, Weight: 0.5},
		})

		assert.Equal(t, 90.0, scores["AAA"])
		assert.Equal(t, 30.0, scores["BBB"])
	})

	t.Run("uniform inputs survive renormalization", func(t *testing.T) {
		// A ticker scoring 70 everywhere scores 70 no matter which
		// subset of components it carries.
		full := Combine([]Component{
			{Ranks: map[string]float64{"AAA": 70}, Weight: 0.5},
			{Ranks: map[string]float64{"AAA": 70}, Weight: 0.3},
			{Ranks: map[string]float64{"AAA": 70}, Weight: 0.2},
		})
		partial := Combine([]Component{
			{Ranks: map[string]float64{"AAA": 70}, Weight: 0.5},
			{Ranks: map[string]float64{}, Weight: 0.3},
			{Ranks: map[string]float64{"AAA": 70}, Weight: 0.2},
		})

		assert.Equal(t, 70.0, full["AAA"])
		assert.Equal(t, 70.0, partial["AAA"])
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, Combine(nil))
	})
}

func TestQuintileGrade(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, "A"},
		{80, "A"},
		{79.99, "B"},
		{60, "B"},
		{59.99, "C"},
		{40, "C"},
		{39.99, "D"},
		{20, "D"},
		{19.99, "E"},
		{0, "E"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, QuintileGrade(tc.score), "score %v", tc.score)
	}
}
