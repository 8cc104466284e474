package document

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FromAny converts a generic decoded tree (as produced by encoding/json or
// yaml.v3 unmarshaling into any) into a Value. Unknown leaf types are
// rejected rather than guessed at.
func FromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return Str(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Num(t), nil
	case float32:
		return Num(float64(t)), nil
	case int:
		return Num(float64(t)), nil
	case int64:
		return Num(float64(t)), nil
	case uint64:
		return Num(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}

		return Num(f), nil
	case []any:
		elems := make([]Value, 0, len(t))

		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("array element %d: %w", i, err)
			}

			elems = append(elems, ev)
		}

		return Arr(elems...), nil
	case map[string]any:
		// Generic maps carry no order; sort keys so decoding is deterministic.
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		members := make([]Member, 0, len(keys))

		for _, k := range keys {
			mv, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}

			members = append(members, Member{Key: k, Value: mv})
		}

		return Obj(members...), nil
	case map[any]any:
		// yaml.v2 legacy shape; keys must still be strings.
		converted := make(map[string]any, len(t))

		for k, v := range t {
			ks, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("non-string object key %v", k)
			}

			converted[ks] = v
		}

		return FromAny(converted)
	default:
		return Value{}, fmt.Errorf("unsupported value of type %T", raw)
	}
}

// ParseJSON decodes a JSON document into a Value.
func ParseJSON(data []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("failed to parse JSON document: %w", err)
	}

	return FromAny(raw)
}
