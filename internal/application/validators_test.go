package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func paramsNode(t *testing.T, src string) yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	require.Len(t, doc.Content, 1)
	return *doc.Content[0]
}

func TestValidateScorerParameters(t *testing.T) {
	tests := []struct {
		name       string
		scorerType string
		params     string
		errText    string
	}{
		{name: "jaro without parameters", scorerType: ScorerJaro, params: "{}"},
		{name: "levenshtein rejects parameters", scorerType: ScorerLevenshtein, params: "weight: 2", errText: "takes no parameters"},
		{name: "jaro custom full", scorerType: ScorerJaroCustom, params: "boost_threshold: 0.7\nprefix_size: 4"},
		{name: "jaro custom integer boost", scorerType: ScorerJaroCustom, params: "boost_threshold: 1"},
		{name: "jaro custom boost too high", scorerType: ScorerJaroCustom, params: "boost_threshold: 1.2", errText: "between 0 and 1"},
		{name: "jaro custom boost not a number", scorerType: ScorerJaroCustom, params: "boost_threshold: high", errText: "must be a number"},
		{name: "jaro custom fractional prefix", scorerType: ScorerJaroCustom, params: "prefix_size: 2.5", errText: "must be an integer"},
		{name: "jaro custom prefix too long", scorerType: ScorerJaroCustom, params: "prefix_size: 17", errText: "between 0 and 16"},
		{name: "jaro custom unknown key", scorerType: ScorerJaroCustom, params: "scaling: 0.1", errText: "unknown jaro_custom parameter"},
		{name: "custom types are not checked", scorerType: "soundex", params: "anything: [1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScorerParameters(tt.scorerType, paramsNode(t, tt.params))
			if tt.errText == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestDecodeParameters(t *testing.T) {
	t.Run("absent node", func(t *testing.T) {
		params, err := DecodeParameters(yaml.Node{})
		require.NoError(t, err)
		assert.Empty(t, params)
	})

	t.Run("mapping", func(t *testing.T) {
		params, err := DecodeParameters(paramsNode(t, "boost_threshold: 0.6\nprefix_size: 3"))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"boost_threshold": 0.6, "prefix_size": 3}, params)
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := DecodeParameters(paramsNode(t, "[1, 2]"))
		assert.Error(t, err)
	})
}
