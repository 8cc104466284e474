package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transform-analyzer/parser"
)

func parsedWith(confidences ...float64) *parser.ParsedExamples {
	patterns := make([]parser.Pattern, 0, len(confidences))

	for i, c := range confidences {
		patterns = append(patterns, parser.Pattern{
			Type:       parser.PatternCustom,
			TargetPath: string(rune('a' + i)),
			Confidence: c,
		})
	}

	return &parser.ParsedExamples{NumExamples: 3, Patterns: patterns}
}

func newFilter(t *testing.T) *PatternFilter {
	t.Helper()

	pf, err := NewPatternFilter(DefaultThreshold)
	require.NoError(t, err)

	return pf
}

func TestFilterPatternsPartition(t *testing.T) {
	pf := newFilter(t)
	parsed := parsedWith(1.0, 0.8, 0.67, 0.5)

	res, err := pf.FilterPatterns(parsed, 0.7)
	require.NoError(t, err)

	for _, p := range res.IncludedPatterns {
		assert.GreaterOrEqual(t, p.Confidence, 0.7)
	}

	for _, p := range res.ExcludedPatterns {
		assert.Less(t, p.Confidence, 0.7)
	}

	// The partition preserves the original multiset and order.
	reassembled := append(append([]parser.Pattern(nil), res.IncludedPatterns...), res.ExcludedPatterns...)
	assert.ElementsMatch(t, parsed.Patterns, reassembled)
	assert.Equal(t, []parser.Pattern{parsed.Patterns[0], parsed.Patterns[1]}, res.IncludedPatterns)
	assert.Equal(t, []parser.Pattern{parsed.Patterns[2], parsed.Patterns[3]}, res.ExcludedPatterns)
}

func TestFilterPatternsBoundaryThresholds(t *testing.T) {
	pf := newFilter(t)
	parsed := parsedWith(1.0, 0.8, 0.3)

	all, err := pf.FilterPatterns(parsed, 0.0)
	require.NoError(t, err)
	assert.Len(t, all.IncludedPatterns, 3)
	assert.Empty(t, all.ExcludedPatterns)

	strict, err := pf.FilterPatterns(parsed, 1.0)
	require.NoError(t, err)
	require.Len(t, strict.IncludedPatterns, 1)
	assert.Equal(t, 1.0, strict.IncludedPatterns[0].Confidence)
}

func TestFilterPatternsInvalidThreshold(t *testing.T) {
	pf := newFilter(t)
	parsed := parsedWith(0.5)

	_, err := pf.FilterPatterns(parsed, -0.1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = pf.FilterPatterns(parsed, 1.1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestNewPatternFilterValidatesDefault(t *testing.T) {
	_, err := NewPatternFilter(1.5)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestFilterUsesDefaultThreshold(t *testing.T) {
	pf, err := NewPatternFilter(0.9)
	require.NoError(t, err)

	res, err := pf.Filter(parsedWith(0.95, 0.85))
	require.NoError(t, err)

	assert.Equal(t, 0.9, res.Threshold)
	assert.Len(t, res.IncludedPatterns, 1)
}

func TestFilterPatternsNoWarningsWhenNothingExcluded(t *testing.T) {
	pf := newFilter(t)

	res, err := pf.FilterPatterns(parsedWith(0.9, 0.8), 0.5)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestFilterPatternsManyExcludedWarning(t *testing.T) {
	pf := newFilter(t)

	res, err := pf.FilterPatterns(parsedWith(0.1, 0.2, 0.3, 0.4), 0.95)
	require.NoError(t, err)

	var codes []string
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}

	assert.Contains(t, codes, "many_excluded")
}

func TestFilterPatternsDirectMappingWarning(t *testing.T) {
	pf := newFilter(t)

	parsed := &parser.ParsedExamples{
		NumExamples: 3,
		Patterns: []parser.Pattern{
			{Type: parser.PatternFieldMapping, TargetPath: "a", Confidence: 0.5},
		},
	}

	res, err := pf.FilterPatterns(parsed, 0.8)
	require.NoError(t, err)

	var codes []string
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}

	assert.Contains(t, codes, "excluded_direct_mapping")
}

func TestFilterPatternsNearThresholdWarning(t *testing.T) {
	pf := newFilter(t)

	res, err := pf.FilterPatterns(parsedWith(0.8), 0.9)
	require.NoError(t, err)

	var codes []string
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}

	assert.Contains(t, codes, "near_threshold")

	// 0.89 and above is out of the near-threshold band.
	res, err = pf.FilterPatterns(parsedWith(0.89), 0.9)
	require.NoError(t, err)

	codes = codes[:0]
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}

	assert.NotContains(t, codes, "near_threshold")
}

func TestBandAccessorsFilterWithinIncludedOnly(t *testing.T) {
	pf := newFilter(t)

	// 0.95 high, 0.8 medium, 0.65 low-but-included, 0.3 excluded.
	res, err := pf.FilterPatterns(parsedWith(0.95, 0.8, 0.65, 0.3), 0.6)
	require.NoError(t, err)

	require.Len(t, res.IncludedPatterns, 3)
	require.Len(t, res.ExcludedPatterns, 1)

	assert.Len(t, res.HighConfidencePatterns(), 1)
	assert.Len(t, res.MediumConfidencePatterns(), 1)

	// The excluded 0.3 pattern must not resurface in the low band.
	low := res.LowConfidencePatterns()
	require.Len(t, low, 1)
	assert.Equal(t, 0.65, low[0].Confidence)

	assert.Equal(t, res.IncludedPatterns, res.Patterns())
}
