package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceTopN(t *testing.T) {
	items := []int{9, 8, 7, 6, 5}

	tests := []struct {
		name string
		n    int
		want []int
	}{
		{name: "zero returns all", n: 0, want: []int{9, 8, 7, 6, 5}},
		{name: "first two", n: 2, want: []int{9, 8}},
		{name: "positive larger than input", n: 10, want: []int{9, 8, 7, 6, 5}},
		{name: "last two", n: -2, want: []int{6, 5}},
		{name: "negative larger than input", n: -10, want: []int{9, 8, 7, 6, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SliceTopN(items, tt.n))
		})
	}

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SliceTopN([]int{}, 3))
		assert.Empty(t, SliceTopN([]int{}, -3))
	})
}

func TestRankingConfig_Accepts(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		score     float64
		want      bool
	}{
		{name: "zero threshold accepts zero score", threshold: 0, score: 0, want: true},
		{name: "near-zero threshold rounds to accept all", threshold: 0.04, score: 0.01, want: true},
		{name: "score above threshold", threshold: 0.5, score: 0.51, want: true},
		{name: "score equal to threshold is rejected", threshold: 0.5, score: 0.5, want: false},
		{name: "score below threshold", threshold: 0.5, score: 0.3, want: false},
		{name: "threshold rounding to 0.1 filters", threshold: 0.05, score: 0.04, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RankingConfig{Threshold: tt.threshold}
			assert.Equal(t, tt.want, cfg.Accepts(tt.score))
		})
	}
}

func TestRankingConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultRankingConfig().Validate())
	require.NoError(t, RankingConfig{Threshold: 0, TopN: -3}.Validate())

	for _, bad := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		err := RankingConfig{Threshold: bad}.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	}
}
