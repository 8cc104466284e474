package parser

import (
	"fmt"

	"transform-analyzer/document"
	"transform-analyzer/internal/common"
	"transform-analyzer/schema"
)

// PatternType classifies a detected field-level transformation.
type PatternType int

const (
	PatternFieldMapping PatternType = iota
	PatternFieldExtraction
	PatternConcatenation
	PatternTypeConversion
	PatternBooleanConversion
	PatternValueMapping
	PatternNestedAccess
	PatternListAggregation
	PatternConditional
	PatternDateParsing
	PatternMathOperation
	PatternStringFormatting
	PatternDefaultValue
	PatternCustom
)

// String returns the wire name of the pattern type.
func (t PatternType) String() string {
	switch t {
	case PatternFieldMapping:
		return "field_mapping"
	case PatternFieldExtraction:
		return "field_extraction"
	case PatternConcatenation:
		return "concatenation"
	case PatternTypeConversion:
		return "type_conversion"
	case PatternBooleanConversion:
		return "boolean_conversion"
	case PatternValueMapping:
		return "value_mapping"
	case PatternNestedAccess:
		return "nested_access"
	case PatternListAggregation:
		return "list_aggregation"
	case PatternConditional:
		return "conditional"
	case PatternDateParsing:
		return "date_parsing"
	case PatternMathOperation:
		return "math_operation"
	case PatternStringFormatting:
		return "string_formatting"
	case PatternDefaultValue:
		return "default_value"
	case PatternCustom:
		return "custom"
	default:
		return common.UnknownStr
	}
}

// IsDirectMapping returns true for the verbatim-copy pattern types.
func (t PatternType) IsDirectMapping() bool {
	return t == PatternFieldMapping || t == PatternFieldExtraction
}

// Pattern is a detected transformation for a single output field.
type Pattern struct {
	// Type classifies the transformation.
	Type PatternType
	// SourcePath is the input-side dot-path the value derives from.
	// Empty for constants and custom fallbacks.
	SourcePath string
	// TargetPath is the output-side dot-path being produced.
	TargetPath string
	// Confidence is the fraction of examples the pattern held across,
	// always within [0,1].
	Confidence float64
	// Transformation is a human-readable description of the detected rule.
	Transformation string
}

// Example is one paired input/output document.
type Example struct {
	Input  document.Value
	Output document.Value
}

// Warning is a structured, user-facing reliability note.
type Warning struct {
	// Code is a stable identifier for this kind of warning.
	Code string
	// Message is the human-readable description.
	Message string
	// FieldPath identifies which output field this relates to, if any.
	FieldPath string
}

// String returns a formatted warning string.
func (w Warning) String() string {
	msg := w.Message
	if w.Code != "" {
		msg = fmt.Sprintf("[%s] %s", w.Code, msg)
	}

	if w.FieldPath != "" {
		return w.FieldPath + ": " + msg
	}

	return msg
}

// ParsedExamples is the complete result of pattern detection over a set
// of example pairs. At most one pattern is emitted per output field, in
// output-schema order.
type ParsedExamples struct {
	InputSchema  *schema.Schema
	OutputSchema *schema.Schema
	NumExamples  int
	Patterns     []Pattern
	// Differences are the structural schema differences computed before
	// pattern detection.
	Differences []schema.Difference
	Warnings    []Warning
}
