package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transform-analyzer/parser"
)

func TestGetThresholdPresets(t *testing.T) {
	presets := GetThresholdPresets()
	require.Len(t, presets, 3)

	assert.Equal(t, 0.8, presets["conservative"].Value)
	assert.Equal(t, 0.7, presets["balanced"].Value)
	assert.Equal(t, 0.6, presets["aggressive"].Value)

	assert.True(t, presets["balanced"].Default)
	assert.False(t, presets["conservative"].Default)
	assert.False(t, presets["aggressive"].Default)

	for name, p := range presets {
		assert.NotEmpty(t, p.Description, "preset %s needs a description", name)
	}
}

func TestGetThresholdPresetsFreshPerCall(t *testing.T) {
	first := GetThresholdPresets()
	delete(first, "balanced")

	assert.Len(t, GetThresholdPresets(), 3)
}

func TestFormatConfidenceSummaryEmpty(t *testing.T) {
	assert.Equal(t, noPatternsMessage, FormatConfidenceSummary(&parser.ParsedExamples{}))
	assert.Equal(t, noPatternsMessage, FormatConfidenceSummary(nil))
}

func TestFormatConfidenceSummaryBands(t *testing.T) {
	summary := FormatConfidenceSummary(parsedWith(1.0, 0.95, 0.8, 0.3))

	assert.Contains(t, summary, "4 pattern(s)")
	assert.Contains(t, summary, "2 (50%)")

	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "high")
	assert.Contains(t, lines[2], "medium")
	assert.Contains(t, lines[3], "low")
}
