package domain

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int
		want   float64
	}{
		{name: "three places down", value: 0.12341, places: 3, want: 0.123},
		{name: "three places up", value: 0.12351, places: 3, want: 0.124},
		{name: "one place to zero", value: 0.04, places: 1, want: 0.0},
		{name: "one place up", value: 0.05, places: 1, want: 0.1},
		{name: "integer", value: 2, places: 3, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Round(tt.value, tt.places), 1e-12)
		})
	}
}

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Manager", "manager"},
		{"manager ", "manager"},
		{"  SALES Manager\t", "sales manager"},
		{"ÉCOLE", "école"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWord(tt.in))
		})
	}
}

func TestPrediction(t *testing.T) {
	p := NewPrediction("jaro winkler", "sales manager", 0.8234)

	assert.Equal(t, "jaro winkler", p.Algorithm())
	assert.Equal(t, "sales manager", p.Candidate())
	assert.Equal(t, 0.8234, p.Score())
	assert.Equal(t, "algorithm: 'jaro winkler' | predict: 'sales manager' | score: 0.823", p.String())

	t.Run("equality uses rounded score", func(t *testing.T) {
		assert.True(t, p.Equal(NewPrediction("jaro standard", "manager", 0.8231)))
		assert.False(t, p.Equal(NewPrediction("jaro standard", "manager", 0.8246)))
	})

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"algorithm":"jaro winkler","candidate":"sales manager","score":0.8234}`, string(data))
	})
}

func TestComparePredictions(t *testing.T) {
	preds := []Prediction{
		NewPrediction("a", "low", 0.2),
		NewPrediction("a", "tie-first", 0.70001),
		NewPrediction("a", "high", 0.9),
		NewPrediction("a", "tie-second", 0.70004),
	}

	slices.SortStableFunc(preds, ComparePredictions)

	got := make([]string, len(preds))
	for i, p := range preds {
		got[i] = p.Candidate()
	}
	// Scores equal at three decimals keep their input order.
	assert.Equal(t, []string{"high", "tie-first", "tie-second", "low"}, got)
}
