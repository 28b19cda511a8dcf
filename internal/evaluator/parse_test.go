package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluation(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantImportance float64
		wantInfluence  float64
		wantErr        bool
	}{
		{
			name:           "plain json",
			text:           `{"importance": 0.8, "influence": 0.3, "reasoning": "critical path"}`,
			wantImportance: 0.8,
			wantInfluence:  0.3,
		},
		{
			name:           "fenced json",
			text:           "```json\n{\"importance\": 0.6, \"influence\": 0.9, \"reasoning\": \"ok\"}\n```",
			wantImportance: 0.6,
			wantInfluence:  0.9,
		},
		{
			name:           "prose around json",
			text:           `Here is my assessment: {"importance": 0.5, "influence": 0.5, "reasoning": "mid"} Hope that helps.`,
			wantImportance: 0.5,
			wantInfluence:  0.5,
		},
		{
			name:           "out of range scores are clamped",
			text:           `{"importance": 1.4, "influence": -0.2, "reasoning": "drifted"}`,
			wantImportance: 1.0,
			wantInfluence:  0.0,
		},
		{
			name:    "not json",
			text:    "I cannot assess this task.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEvaluation(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantImportance, got.Importance, 0.0001)
			assert.InDelta(t, tt.wantInfluence, got.Influence, 0.0001)
		})
	}
}

func TestParseDiscovery(t *testing.T) {
	text := "```json\n" + `[
		{"name": "Export credit approval", "category": "financing", "description": "ECA cover"},
		{"name": "", "category": "other", "description": "dropped"},
		{"name": "Mystery step", "category": "logistics", "description": "unknown category"}
	]` + "\n```"

	specs, err := parseDiscovery(text)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "Export credit approval", specs[0].Name)
	assert.Equal(t, "financing", specs[0].Category)

	// Unknown categories collapse to "other" instead of failing the parse.
	assert.Equal(t, "Mystery step", specs[1].Name)
	assert.Equal(t, "other", specs[1].Category)
}

func TestParseDiscovery_NotJSON(t *testing.T) {
	_, err := parseDiscovery("no dependencies found")
	require.Error(t, err)
}
