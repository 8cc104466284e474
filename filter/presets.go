package filter

import (
	"fmt"
	"strings"

	"transform-analyzer/parser"
)

// ThresholdPreset is a named minimum-confidence cutoff.
type ThresholdPreset struct {
	Value       float64
	Description string
	Default     bool
}

// GetThresholdPresets returns the fixed preset map. The map is built
// fresh per call so callers can't mutate shared state.
func GetThresholdPresets() map[string]ThresholdPreset {
	return map[string]ThresholdPreset{
		"conservative": {
			Value:       0.8,
			Description: "only well-supported patterns; fewer fields, fewer surprises",
		},
		"balanced": {
			Value:       0.7,
			Description: "keep patterns that held in most examples (default)",
			Default:     true,
		},
		"aggressive": {
			Value:       0.6,
			Description: "keep speculative patterns too; review the output carefully",
		},
	}
}

// noPatternsMessage is returned by FormatConfidenceSummary for an empty
// pattern list.
const noPatternsMessage = "No patterns detected."

// FormatConfidenceSummary renders a textual breakdown of pattern
// confidence bands with counts and percentages. It never fails: an empty
// pattern list yields a fixed message.
func FormatConfidenceSummary(parsed *parser.ParsedExamples) string {
	if parsed == nil || len(parsed.Patterns) == 0 {
		return noPatternsMessage
	}

	high, medium, low := 0, 0, 0

	for _, p := range parsed.Patterns {
		switch {
		case p.Confidence >= HighConfidence:
			high++
		case p.Confidence >= MediumConfidence:
			medium++
		default:
			low++
		}
	}

	total := len(parsed.Patterns)

	var sb strings.Builder

	fmt.Fprintf(&sb, "%d pattern(s) detected across %d example(s)\n", total, parsed.NumExamples)
	fmt.Fprintf(&sb, "  high   (>= %.2f): %s\n", HighConfidence, bandLine(high, total))
	fmt.Fprintf(&sb, "  medium (%.2f-%.2f): %s\n", MediumConfidence, HighConfidence, bandLine(medium, total))
	fmt.Fprintf(&sb, "  low    (<  %.2f): %s", MediumConfidence, bandLine(low, total))

	return sb.String()
}

func bandLine(count, total int) string {
	return fmt.Sprintf("%d (%d%%)", count, count*100/total)
}
