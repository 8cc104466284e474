package parser

import (
	"sort"

	"transform-analyzer/document"
)

// maybeValue is an observation that may be absent in a given example.
type maybeValue struct {
	val document.Value
	ok  bool
}

// fieldContext carries everything the detector chain needs for one output
// field: the per-example output observations and an indexed view of every
// addressable input location across all examples.
type fieldContext struct {
	// targetPath is the output field's dot-path.
	targetPath string
	// total is the number of example pairs.
	total int
	// outputs holds the value at targetPath per example.
	outputs []maybeValue
	// paths are all candidate input paths, lexicographically sorted so
	// every best-count search resolves ties deterministically.
	paths []document.Path
	// pathValues is indexed [path][example].
	pathValues [][]maybeValue
}

// newFieldContext indexes the input documents for one output field.
// The path index is shared across fields via indexInputs; only the output
// observations differ per field.
func newFieldContext(targetPath document.Path, examples []Example, idx *inputIndex) *fieldContext {
	outputs := make([]maybeValue, len(examples))

	for i := range examples {
		v, ok := targetPath.Lookup(examples[i].Output)
		outputs[i] = maybeValue{val: v, ok: ok}
	}

	return &fieldContext{
		targetPath: targetPath.String(),
		total:      len(examples),
		outputs:    outputs,
		paths:      idx.paths,
		pathValues: idx.values,
	}
}

// inputIndex is the exhaustive traversal of every input document: the
// union of all addressable paths, with per-example values resolved.
type inputIndex struct {
	paths  []document.Path
	values [][]maybeValue
}

// indexInputs enumerates every object member and array element of every
// input document and resolves each discovered path against each example.
func indexInputs(examples []Example) *inputIndex {
	seen := map[string]document.Path{}

	for i := range examples {
		for _, node := range document.EnumeratePaths(examples[i].Input) {
			key := node.Path.String()
			if _, ok := seen[key]; !ok {
				seen[key] = node.Path
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	idx := &inputIndex{
		paths:  make([]document.Path, len(keys)),
		values: make([][]maybeValue, len(keys)),
	}

	for pi, k := range keys {
		p := seen[k]
		idx.paths[pi] = p

		vals := make([]maybeValue, len(examples))

		for i := range examples {
			v, ok := p.Lookup(examples[i].Input)
			vals[i] = maybeValue{val: v, ok: ok}
		}

		idx.values[pi] = vals
	}

	return idx
}

// pathFilter restricts which candidate paths a detector considers.
type pathFilter func(document.Path) bool

func topLevelPaths(p document.Path) bool { return p.Depth() == 1 && !p.HasIndex() }
func nestedPaths(p document.Path) bool   { return p.Depth() > 1 && !p.HasIndex() }
func indexedPaths(p document.Path) bool  { return p.HasIndex() }
func anyPath(document.Path) bool         { return true }

// valueMatch decides whether an input observation explains an output
// observation in one example.
type valueMatch func(in, out document.Value) bool

// bestMatch finds the input path maximizing the number of examples where
// match holds. Paths are scanned in sorted order and only a strictly
// better count replaces the running best, so ties resolve to the
// lexicographically smallest path. Returns index -1 and a zero count when
// nothing matched anywhere.
func (ctx *fieldContext) bestMatch(filter pathFilter, match valueMatch) (int, int) {
	bestIdx := -1
	bestCount := 0

	for pi, p := range ctx.paths {
		if !filter(p) {
			continue
		}

		count := 0

		for i := 0; i < ctx.total; i++ {
			out := ctx.outputs[i]
			in := ctx.pathValues[pi][i]

			if out.ok && in.ok && match(in.val, out.val) {
				count++
			}
		}

		if count > bestCount {
			bestIdx, bestCount = pi, count
		}
	}

	return bestIdx, bestCount
}

// firstMatchPair returns the first example's (input, output) pair where
// match held for the given path index. Used to phrase descriptions.
func (ctx *fieldContext) firstMatchPair(pi int, match valueMatch) (document.Value, document.Value) {
	for i := 0; i < ctx.total; i++ {
		out := ctx.outputs[i]
		in := ctx.pathValues[pi][i]

		if out.ok && in.ok && match(in.val, out.val) {
			return in.val, out.val
		}
	}

	var zero document.Value

	return zero, zero
}

// presentOutputs returns the number of examples where the output field
// was present at all.
func (ctx *fieldContext) presentOutputs() int {
	n := 0

	for _, o := range ctx.outputs {
		if o.ok {
			n++
		}
	}

	return n
}

// confidence converts a consistent-example count into a score in [0,1].
func (ctx *fieldContext) confidence(count int) float64 {
	if ctx.total == 0 {
		return 0
	}

	return float64(count) / float64(ctx.total)
}

// valueInAnyInput reports whether the value occurs verbatim anywhere in
// any input document.
func (ctx *fieldContext) valueInAnyInput(v document.Value) bool {
	for pi := range ctx.paths {
		for i := 0; i < ctx.total; i++ {
			in := ctx.pathValues[pi][i]
			if in.ok && in.val.Equal(v) {
				return true
			}
		}
	}

	return false
}

// scalarString renders a scalar input value the way it would appear inside
// a concatenated or formatted output string.
func scalarString(v document.Value) (string, bool) {
	switch v.Kind() {
	case document.KindString:
		return v.StringVal(), true
	case document.KindNumber:
		return document.FormatNumber(v.NumberVal()), true
	case document.KindBool:
		if v.BoolVal() {
			return "true", true
		}

		return "false", true
	default:
		return "", false
	}
}

// numericValue extracts a float from numbers and decimal-formatted strings.
func numericValue(v document.Value) (float64, bool) {
	switch v.Kind() {
	case document.KindNumber:
		return v.NumberVal(), true
	case document.KindString:
		return parseDecimalString(v.StringVal())
	default:
		return 0, false
	}
}
