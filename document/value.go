package document

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"transform-analyzer/internal/common"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindInvalid Kind = iota

	KindString
	KindNumber
	KindBool
	KindNull
	KindArray
	KindObject
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return common.UnknownStr
	}
}

// IsScalar returns true for string, number, bool, and null values.
func (k Kind) IsScalar() bool {
	switch k {
	case KindString, KindNumber, KindBool, KindNull:
		return true
	default:
		return false
	}
}

// Value is a closed recursive variant over the JSON-like value space.
// Values are treated as immutable once constructed; analysis code never
// mutates a Value it did not build.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	arr  []Value
	obj  []Member
}

// Member is a single key/value entry of an object. Objects preserve the
// member order they were constructed with.
type Member struct {
	Key   string
	Value Value
}

// Str constructs a string value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Num constructs a number value.
func Num(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Null constructs a null value.
func Null() Value { return Value{kind: KindNull} }

// Arr constructs an array value from its elements.
func Arr(elems ...Value) Value { return Value{kind: KindArray, arr: elems} }

// Obj constructs an object value from ordered members.
func Obj(members ...Member) Value { return Value{kind: KindObject, obj: members} }

// Kind returns the variant tag. The zero Value reports KindInvalid.
func (v Value) Kind() Kind { return v.kind }

// StringVal returns the string payload; valid only for KindString.
func (v Value) StringVal() string { return v.str }

// NumberVal returns the numeric payload; valid only for KindNumber.
func (v Value) NumberVal() float64 { return v.num }

// BoolVal returns the boolean payload; valid only for KindBool.
func (v Value) BoolVal() bool { return v.b }

// Elems returns the elements of an array value.
func (v Value) Elems() []Value { return v.arr }

// Members returns the ordered members of an object value.
func (v Value) Members() []Member { return v.obj }

// Field returns the member value for key and whether it was present.
func (v Value) Field(key string) (Value, bool) {
	for _, m := range v.obj {
		if m.Key == key {
			return m.Value, true
		}
	}

	var zero Value

	return zero, false
}

// IsIntegral reports whether a number value holds an integer-valued float
// exactly representable as an int64.
func (v Value) IsIntegral() bool {
	if v.kind != KindNumber {
		return false
	}

	return v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53
}

// Clone returns a deep copy. Values are immutable by convention, but
// callers that hold onto samples across mutations of a source tree can
// detach with an explicit copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i := range v.arr {
			arr[i] = v.arr[i].Clone()
		}

		return Value{kind: KindArray, arr: arr}
	case KindObject:
		obj := make([]Member, len(v.obj))
		for i, m := range v.obj {
			obj[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}

		return Value{kind: KindObject, obj: obj}
	default:
		return v
	}
}

// Equal reports deep equality. Objects compare by key set and per-key
// values regardless of member order; arrays compare element-wise.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindNull:
		return true
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}

		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}

		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}

		for _, m := range v.obj {
			ov, ok := o.Field(m.Key)
			if !ok || !m.Value.Equal(ov) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// Canonical returns a stable serialized form of the value. Object keys are
// sorted, so structurally equal values always canonicalize identically.
// Nested samples are deduplicated by this form rather than by hashing,
// which keeps array- and object-typed samples comparable.
func (v Value) Canonical() string {
	var sb strings.Builder

	v.writeCanonical(&sb)

	return sb.String()
}

func (v Value) writeCanonical(sb *strings.Builder) {
	switch v.kind {
	case KindString:
		sb.WriteString(strconv.Quote(v.str))
	case KindNumber:
		sb.WriteString(FormatNumber(v.num))
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNull:
		sb.WriteString("null")
	case KindArray:
		sb.WriteByte('[')

		for i := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}

			v.arr[i].writeCanonical(sb)
		}

		sb.WriteByte(']')
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for _, m := range v.obj {
			keys = append(keys, m.Key)
		}

		sort.Strings(keys)

		sb.WriteByte('{')

		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}

			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')

			fv, _ := v.Field(k)
			fv.writeCanonical(sb)
		}

		sb.WriteByte('}')
	default:
		sb.WriteString("<invalid>")
	}
}

// FormatNumber renders a float the way canonical forms and descriptions
// expect: integral values without a fractional part, everything else in
// the shortest round-trip representation.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToAny converts the value back into the generic representation used by
// encoding/json and yaml.v3 marshalers.
func (v Value) ToAny() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.IsIntegral() {
			return int64(v.num)
		}

		return v.num
	case KindBool:
		return v.b
	case KindArray:
		out := make([]any, len(v.arr))
		for i := range v.arr {
			out[i] = v.arr[i].ToAny()
		}

		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for _, m := range v.obj {
			out[m.Key] = m.Value.ToAny()
		}

		return out
	default:
		return nil
	}
}
