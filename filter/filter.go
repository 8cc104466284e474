package filter

import (
	"errors"
	"fmt"

	"transform-analyzer/internal/common"
	"transform-analyzer/parser"
)

// ErrInvalidThreshold reports a confidence threshold outside [0, 1].
var ErrInvalidThreshold = errors.New("invalid threshold")

// Confidence band boundaries shared by filtering warnings and summaries.
const (
	// DefaultThreshold is the balanced preset value.
	DefaultThreshold = 0.7
	// HighConfidence is the lower bound of the high band.
	HighConfidence = 0.9
	// MediumConfidence is the lower bound of the medium band.
	MediumConfidence = 0.7
)

// maxExcludedBeforeHint is the excluded-pattern count above which the
// filter suggests lowering the threshold.
const maxExcludedBeforeHint = 3

// PatternFilter partitions parse results by confidence. The zero filter
// is not useful; construct one with NewPatternFilter so the default
// threshold is explicit rather than a package global.
type PatternFilter struct {
	defaultThreshold float64
}

// NewPatternFilter creates a filter with the given default threshold.
// The default is validated the same way per-call thresholds are.
func NewPatternFilter(defaultThreshold float64) (*PatternFilter, error) {
	if err := validateThreshold(defaultThreshold); err != nil {
		return nil, err
	}

	return &PatternFilter{defaultThreshold: defaultThreshold}, nil
}

// FilteredParsedExamples is a parse result partitioned at a threshold.
type FilteredParsedExamples struct {
	Parsed           *parser.ParsedExamples
	Threshold        float64
	IncludedPatterns []parser.Pattern
	ExcludedPatterns []parser.Pattern
	// Warnings extends the parse warnings with filtering advice.
	Warnings []parser.Warning
}

// Patterns is an alias of IncludedPatterns: downstream code generation
// only ever sees what passed the threshold.
func (f *FilteredParsedExamples) Patterns() []parser.Pattern {
	return f.IncludedPatterns
}

// HighConfidencePatterns returns included patterns with confidence ≥ 0.9.
// All three band accessors filter within IncludedPatterns only; excluded
// patterns never resurface through them. This is a deliberate contract.
func (f *FilteredParsedExamples) HighConfidencePatterns() []parser.Pattern {
	return f.filterIncluded(func(c float64) bool { return c >= HighConfidence })
}

// MediumConfidencePatterns returns included patterns in [0.7, 0.9).
func (f *FilteredParsedExamples) MediumConfidencePatterns() []parser.Pattern {
	return f.filterIncluded(func(c float64) bool { return c >= MediumConfidence && c < HighConfidence })
}

// LowConfidencePatterns returns included patterns below 0.7.
func (f *FilteredParsedExamples) LowConfidencePatterns() []parser.Pattern {
	return f.filterIncluded(func(c float64) bool { return c < MediumConfidence })
}

func (f *FilteredParsedExamples) filterIncluded(keep func(float64) bool) []parser.Pattern {
	var out []parser.Pattern

	for _, p := range f.IncludedPatterns {
		if keep(p.Confidence) {
			out = append(out, p)
		}
	}

	return out
}

// Filter partitions at the filter's default threshold.
func (pf *PatternFilter) Filter(parsed *parser.ParsedExamples) (*FilteredParsedExamples, error) {
	return pf.FilterPatterns(parsed, pf.defaultThreshold)
}

// FilterPatterns partitions parsed.Patterns by confidence ≥ threshold,
// preserving order on both sides, and appends filtering advice when
// anything was excluded.
func (pf *PatternFilter) FilterPatterns(
	parsed *parser.ParsedExamples,
	threshold float64,
) (*FilteredParsedExamples, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	res := &FilteredParsedExamples{
		Parsed:    parsed,
		Threshold: threshold,
		Warnings:  append([]parser.Warning(nil), parsed.Warnings...),
	}

	for _, p := range parsed.Patterns {
		if p.Confidence >= threshold {
			res.IncludedPatterns = append(res.IncludedPatterns, p)
		} else {
			res.ExcludedPatterns = append(res.ExcludedPatterns, p)
		}
	}

	res.Warnings = append(res.Warnings, exclusionWarnings(res.ExcludedPatterns, threshold)...)

	return res, nil
}

// exclusionWarnings builds the advice list for a partition. Nothing is
// added when nothing was excluded.
func exclusionWarnings(excluded []parser.Pattern, threshold float64) []parser.Warning {
	if common.IsEmpty(excluded) {
		return nil
	}

	var warnings []parser.Warning

	if len(excluded) > maxExcludedBeforeHint {
		warnings = append(warnings, parser.Warning{
			Code: "many_excluded",
			Message: fmt.Sprintf(
				"%d patterns were excluded at threshold %.2f; consider lowering the threshold",
				len(excluded), threshold),
		})
	}

	for _, p := range excluded {
		if p.Type.IsDirectMapping() {
			warnings = append(warnings, parser.Warning{
				Code: "excluded_direct_mapping",
				Message: fmt.Sprintf(
					"excluded %s pattern for %q; direct mappings are typically reliable",
					p.Type, p.TargetPath),
				FieldPath: p.TargetPath,
			})

			break
		}
	}

	for _, p := range excluded {
		if p.Confidence >= MediumConfidence && p.Confidence < 0.89 {
			warnings = append(warnings, parser.Warning{
				Code: "near_threshold",
				Message: fmt.Sprintf(
					"excluded pattern for %q has confidence %.2f; the balanced preset (0.70) would keep it",
					p.TargetPath, p.Confidence),
				FieldPath: p.TargetPath,
			})

			break
		}
	}

	return warnings
}

func validateThreshold(threshold float64) error {
	if threshold < 0.0 || threshold > 1.0 {
		return fmt.Errorf("threshold %.2f outside [0.0, 1.0]: %w", threshold, ErrInvalidThreshold)
	}

	return nil
}
