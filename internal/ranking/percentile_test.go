package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/ratings/internal/contracts"
)

func TestRank(t *testing.T) {
	t.Run("assigns ascending percentiles", func(t *testing.T) {
		values := map[string]*float64{
			"LOW":  contracts.Float(1),
			"MID":  contracts.Float(5),
			"HIGH": contracts.Float(9),
		}

		ranks := Rank(values)

		assert.InDelta(t, 33.33, ranks["LOW"], 0.01)
		assert.InDelta(t, 66.67, ranks["MID"], 0.01)
		assert.InDelta(t, 100.0, ranks["HIGH"], 0.01)
	})

	t.Run("excludes nil and NaN values", func(t *testing.T) {
		values := map[string]*float64{
			"A":   contracts.Float(3),
			"NIL": nil,
			"NAN": contracts.Float(math.NaN()),
		}

		ranks := Rank(values)

		assert.Len(t, ranks, 1)
		assert.Equal(t, 100.0, ranks["A"])
	})

	t.Run("single entry gets 100", func(t *testing.T) {
		ranks := Rank(map[string]*float64{"ONLY": contracts.Float(-7)})
		assert.Equal(t, 100.0, ranks["ONLY"])
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		assert.Empty(t, Rank(map[string]*float64{}))
	})

	t.Run("ties are deterministic", func(t *testing.T) {
		values := map[string]*float64{
			"B": contracts.Float(5),
			"A": contracts.Float(5),
		}

		first := Rank(values)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, Rank(values))
		}
		assert.Equal(t, 50.0, first["A"])
		assert.Equal(t, 100.0, first["B"])
	})
}

func TestTemporalRank(t *testing.T) {
	t.Run("latest is max", func(t *testing.T) {
		assert.Equal(t, 100.0, TemporalRank([]float64{1, 2, 3, 4, 5}))
	})

	t.Run("latest is min", func(t *testing.T) {
		series := []float64{5, 4, 3, 2, 1}
		assert.Equal(t, 20.0, TemporalRank(series))
	})

	t.Run("middle of series", func(t *testing.T) {
		series := []float64{1, 2, 3, 4, 2.5}
		// 1, 2 and 2.5 itself are <= 2.5: 3 of 5.
		assert.Equal(t, 60.0, TemporalRank(series))
	})

	t.Run("empty series yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, TemporalRank(nil))
	})
}
