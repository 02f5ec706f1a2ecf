package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scores(values ...float64) map[Dimension]float64 {
	m := make(map[Dimension]float64, len(values))
	for i, v := range values {
		m[Dimensions[i]] = v
	}
	return m
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		scores map[Dimension]float64
		want   float64
	}{
		{"even spread", scores(2, 4, 6, 8, 10), 6},
		{"all minimum", scores(1, 1, 1, 1, 1), 1},
		{"all maximum", scores(10, 10, 10, 10, 10), 10},
		{"rounded to two places", scores(1, 1, 1, 2, 2), 1.4},
		{"repeating decimal", scores(7.5, 8, 3.33, 9, 4), 6.37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.scores)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	values := []float64{2, 4, 6, 8, 10}
	want, err := Aggregate(scores(values...))
	require.NoError(t, err)

	// Every rotation of the values across dimensions, inserted in reverse order.
	for shift := 0; shift < len(values); shift++ {
		m := make(map[Dimension]float64)
		for i := len(Dimensions) - 1; i >= 0; i-- {
			m[Dimensions[i]] = values[(i+shift)%len(values)]
		}
		got, err := Aggregate(m)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAggregate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		scores  map[Dimension]float64
		wantDim Dimension
	}{
		{"missing dimension", map[Dimension]float64{MaterialsAndSourcing: 5}, ProductionAndManufacturing},
		{"below range", scores(0, 4, 6, 8, 10), MaterialsAndSourcing},
		{"above range", scores(2, 4, 6, 8, 10.5), EndOfLifeManagement},
		{"unknown dimension", func() map[Dimension]float64 {
			m := scores(2, 4, 6, 8, 10)
			m["packaging"] = 5
			return m
		}(), "packaging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(tt.scores)
			var scoreErr *ScoreError
			require.ErrorAs(t, err, &scoreErr)
			assert.Equal(t, tt.wantDim, scoreErr.Dimension)
		})
	}
}

func TestDimensionLabel(t *testing.T) {
	assert.Equal(t, "end-of-life management", EndOfLifeManagement.Label())
	assert.Equal(t, "other", Dimension("other").Label())
	assert.True(t, ProductUse.Valid())
	assert.False(t, Dimension("other").Valid())
}
