package schema

import (
	"fmt"

	"transform-analyzer/document"
)

// MaxSamples bounds the number of distinct sample values kept per field.
const MaxSamples = 3

// fieldStats accumulates per-path observations across examples.
type fieldStats struct {
	path         document.Path
	presentNon   int // examples where the field was present and non-null
	nullSeen     bool
	votes        map[FieldType]int
	samples      []document.Value
	sampleSeen   map[string]struct{}
	itemTypes    map[FieldType]struct{}
	sawAnyArray  bool
	nestingLevel int
}

// InferSchema infers a Schema from a list of example documents.
// Every example must be an object; an empty list is caller misuse.
func InferSchema(examples []document.Value, role Role) (*Schema, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("infer %s schema: empty example list: %w", role, ErrInvalidInput)
	}

	stats := map[string]*fieldStats{}

	var order []string

	for i, ex := range examples {
		if ex.Kind() != document.KindObject {
			return nil, fmt.Errorf("infer %s schema: example %d is %s, not an object: %w",
				role, i, ex.Kind(), ErrInvalidInput)
		}

		for _, node := range document.FlattenFields(ex) {
			key := node.Path.String()

			st, ok := stats[key]
			if !ok {
				st = &fieldStats{
					path:         node.Path,
					votes:        map[FieldType]int{},
					sampleSeen:   map[string]struct{}{},
					itemTypes:    map[FieldType]struct{}{},
					nestingLevel: node.Path.Depth() - 1,
				}
				stats[key] = st
				order = append(order, key)
			}

			st.observe(node.Value)
		}
	}

	s := &Schema{
		Role:        role,
		NumExamples: len(examples),
		Fields:      make([]Field, 0, len(order)),
		byPath:      make(map[string]int, len(order)),
	}

	for _, key := range order {
		st := stats[key]

		s.byPath[key] = len(s.Fields)
		s.Fields = append(s.Fields, Field{
			Path:         key,
			Type:         st.vote(),
			Nullable:     st.nullSeen,
			Required:     st.presentNon == len(examples),
			NestingLevel: st.nestingLevel,
			Samples:      st.samples,
			ItemType:     st.itemType(),
		})
	}

	return s, nil
}

func (st *fieldStats) observe(v document.Value) {
	if v.Kind() == document.KindNull {
		st.nullSeen = true

		return
	}

	st.presentNon++
	st.votes[Classify(v)]++
	st.addSample(v)

	if v.Kind() == document.KindArray {
		st.sawAnyArray = true

		for _, e := range v.Elems() {
			st.itemTypes[Classify(e)] = struct{}{}
		}
	}
}

// addSample records up to MaxSamples distinct values. Distinctness is
// decided on the canonical serialized form so nested array and object
// samples deduplicate correctly.
func (st *fieldStats) addSample(v document.Value) {
	if len(st.samples) >= MaxSamples {
		return
	}

	key := v.Canonical()
	if _, dup := st.sampleSeen[key]; dup {
		return
	}

	st.sampleSeen[key] = struct{}{}
	st.samples = append(st.samples, v)
}

// vote decides the field type by majority across non-null observations.
// All-null fields type as null; a tie for the top count yields unknown.
func (st *fieldStats) vote() FieldType {
	if len(st.votes) == 0 {
		if st.nullSeen {
			return TypeNull
		}

		return TypeUnknown
	}

	winner := TypeUnknown
	best := 0
	tied := false

	// Deterministic iteration: scan the closed enum range instead of map order.
	for t := TypeUnknown; t <= TypeObject; t++ {
		n := st.votes[t]
		if n == 0 {
			continue
		}

		switch {
		case n > best:
			winner, best, tied = t, n, false
		case n == best:
			tied = true
		}
	}

	if tied {
		return TypeUnknown
	}

	return winner
}

// itemType unions element types across all observed arrays.
func (st *fieldStats) itemType() FieldType {
	if !st.sawAnyArray || len(st.itemTypes) == 0 {
		return TypeUnknown
	}

	if len(st.itemTypes) == 1 {
		for t := range st.itemTypes {
			return t
		}
	}

	// Mixed numeric widths still make a usable element type.
	if allNumeric(st.itemTypes) {
		return TypeFloat
	}

	return TypeUnknown
}

func allNumeric(types map[FieldType]struct{}) bool {
	for t := range types {
		if !t.IsNumeric() {
			return false
		}
	}

	return true
}
