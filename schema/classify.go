package schema

import (
	"regexp"
	"time"

	"transform-analyzer/document"
)

var decimalRe = regexp.MustCompile(`^-?\d+\.\d+$`)

// Temporal layouts probed in order. A layout matches only if it consumes
// the whole string, so datetime layouts never shadow plain dates.
var (
	datetimeLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	dateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
	}
	timeLayouts = []string{
		"15:04:05",
		"15:04",
	}
)

// Classify determines the FieldType of a single observed value.
// Booleans are checked before numbers: runtimes that fold booleans into
// integers must never report them as integer.
func Classify(v document.Value) FieldType {
	switch v.Kind() {
	case document.KindBool:
		return TypeBoolean
	case document.KindNumber:
		if v.IsIntegral() {
			return TypeInteger
		}

		return TypeFloat
	case document.KindString:
		return classifyString(v.StringVal())
	case document.KindNull:
		return TypeNull
	case document.KindArray:
		return TypeArray
	case document.KindObject:
		return TypeObject
	default:
		return TypeUnknown
	}
}

func classifyString(s string) FieldType {
	if s == "" {
		return TypeString
	}

	if matchesAnyLayout(s, datetimeLayouts) {
		return TypeDatetime
	}

	if matchesAnyLayout(s, dateLayouts) {
		return TypeDate
	}

	if matchesAnyLayout(s, timeLayouts) {
		return TypeTime
	}

	if decimalRe.MatchString(s) {
		return TypeDecimal
	}

	return TypeString
}

func matchesAnyLayout(s string, layouts []string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}

	return false
}

// ParseTemporal parses a string against every known temporal layout and
// returns the parsed instant with the matched layout.
func ParseTemporal(s string) (time.Time, string, bool) {
	for _, group := range [][]string{datetimeLayouts, dateLayouts, timeLayouts} {
		for _, layout := range group {
			if t, err := time.Parse(layout, s); err == nil {
				return t, layout, true
			}
		}
	}

	return time.Time{}, "", false
}

// IsTemporal returns true for date, datetime, and time field types.
func (t FieldType) IsTemporal() bool {
	switch t {
	case TypeDate, TypeDatetime, TypeTime:
		return true
	default:
		return false
	}
}

// IsNumeric returns true for integer, float, and decimal field types.
func (t FieldType) IsNumeric() bool {
	switch t {
	case TypeInteger, TypeFloat, TypeDecimal:
		return true
	default:
		return false
	}
}
