package parser

import (
	"math"
	"strconv"
	"strings"

	"transform-analyzer/document"
)

// parseDecimalString parses a plain numeric string ("42", "-3.14").
// Anything with stray characters is not a number in disguise.
func parseDecimalString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// approxEqual compares floats with a relative tolerance, falling back to
// an absolute one near zero.
func approxEqual(a, b float64) bool {
	const eps = 1e-9

	if a == b {
		return true
	}

	diff := math.Abs(a - b)
	if diff < eps {
		return true
	}

	return diff < eps*math.Max(math.Abs(a), math.Abs(b))
}

// coercedEqual reports whether two scalar values of different kinds are
// equal after numeric or string coercion. Same-kind pairs are rejected:
// those belong to verbatim matching, not type conversion.
func coercedEqual(in, out document.Value) bool {
	if in.Kind() == out.Kind() {
		return false
	}

	switch {
	case in.Kind() == document.KindNumber && out.Kind() == document.KindString:
		f, ok := parseDecimalString(out.StringVal())

		return ok && approxEqual(in.NumberVal(), f)
	case in.Kind() == document.KindString && out.Kind() == document.KindNumber:
		f, ok := parseDecimalString(in.StringVal())

		return ok && approxEqual(f, out.NumberVal())
	case in.Kind() == document.KindBool && out.Kind() == document.KindString:
		s, _ := scalarString(in)

		return strings.EqualFold(s, strings.TrimSpace(out.StringVal()))
	case in.Kind() == document.KindString && out.Kind() == document.KindBool:
		switch strings.ToLower(strings.TrimSpace(in.StringVal())) {
		case "true":
			return out.BoolVal()
		case "false":
			return !out.BoolVal()
		default:
			return false
		}
	case in.Kind() == document.KindNumber && out.Kind() == document.KindBool:
		// 0/1 folded into booleans.
		if in.NumberVal() == 1 {
			return out.BoolVal()
		}

		if in.NumberVal() == 0 {
			return !out.BoolVal()
		}

		return false
	default:
		return false
	}
}
