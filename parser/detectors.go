package parser

import (
	"fmt"
	"sort"
	"strings"

	"transform-analyzer/document"
	"transform-analyzer/internal/common"
	"transform-analyzer/schema"
)

// customFallbackConfidence is the fixed score of the custom fallback
// pattern emitted when no detector explains a field.
const customFallbackConfidence = 0.3

// detector is one strategy of the detection chain. Detectors are
// independent: each inspects the field context and returns a pattern or
// nil, and the chain takes the first non-nil result.
type detector struct {
	name   string
	detect func(ctx *fieldContext) *Pattern
}

// detectorChain is the fixed priority order. Earlier detectors describe
// simpler, more direct transformations; reordering changes which pattern
// wins for a field, so the order is part of the contract.
var detectorChain = []detector{
	{"constant", detectConstant},
	{"field_mapping", detectFieldMapping},
	{"nested_access", detectNestedAccess},
	{"list_aggregation", detectListAggregation},
	{"type_conversion", detectTypeConversion},
	{"boolean_conversion", detectBooleanConversion},
	{"concatenation", detectConcatenation},
	{"string_formatting", detectStringFormatting},
	{"math_operation", detectMathOperation},
	{"conditional", detectConditional},
	{"value_mapping", detectValueMapping},
	{"default_value", detectDefaultValue},
	{"date_parsing", detectDateParsing},
	{"custom", detectCustom},
}

// runDetectors evaluates the chain for one output field and returns the
// first non-zero-confidence pattern, or nil when even the fallback has
// nothing to say.
func runDetectors(ctx *fieldContext) *Pattern {
	for _, d := range detectorChain {
		if p := d.detect(ctx); p != nil && p.Confidence > 0 {
			return p
		}
	}

	return nil
}

// detectConstant fires when the output value is identical across all
// examples and never occurs anywhere in any input: a constant injected
// independently of the input document.
func detectConstant(ctx *fieldContext) *Pattern {
	if ctx.total < 2 || ctx.presentOutputs() != ctx.total {
		return nil
	}

	first := ctx.outputs[0].val

	for i := 1; i < ctx.total; i++ {
		if !ctx.outputs[i].val.Equal(first) {
			return nil
		}
	}

	if ctx.valueInAnyInput(first) {
		return nil
	}

	return &Pattern{
		Type:           PatternDefaultValue,
		TargetPath:     ctx.targetPath,
		Confidence:     1.0,
		Transformation: fmt.Sprintf("constant value %s", first.Canonical()),
	}
}

// detectFieldMapping looks for the output value verbatim at a top-level
// input path, falling back to whitespace-trimmed string matches, which
// are reported as extractions.
func detectFieldMapping(ctx *fieldContext) *Pattern {
	if pi, count := ctx.bestMatch(topLevelPaths, document.Value.Equal); count > 0 {
		src := ctx.paths[pi].String()

		return &Pattern{
			Type:           PatternFieldMapping,
			SourcePath:     src,
			TargetPath:     ctx.targetPath,
			Confidence:     ctx.confidence(count),
			Transformation: fmt.Sprintf("map input field %q to %q", src, ctx.targetPath),
		}
	}

	trimmed := func(in, out document.Value) bool {
		if in.Kind() != document.KindString || out.Kind() != document.KindString {
			return false
		}

		return in.StringVal() != out.StringVal() &&
			strings.TrimSpace(in.StringVal()) == out.StringVal()
	}

	if pi, count := ctx.bestMatch(topLevelPaths, trimmed); count > 0 {
		src := ctx.paths[pi].String()

		return &Pattern{
			Type:           PatternFieldExtraction,
			SourcePath:     src,
			TargetPath:     ctx.targetPath,
			Confidence:     ctx.confidence(count),
			Transformation: fmt.Sprintf("extract trimmed value of %q into %q", src, ctx.targetPath),
		}
	}

	return nil
}

// detectNestedAccess matches the output value verbatim at an object path
// deeper than one level.
func detectNestedAccess(ctx *fieldContext) *Pattern {
	pi, count := ctx.bestMatch(nestedPaths, document.Value.Equal)
	if count == 0 {
		return nil
	}

	src := ctx.paths[pi].String()

	return &Pattern{
		Type:           PatternNestedAccess,
		SourcePath:     src,
		TargetPath:     ctx.targetPath,
		Confidence:     ctx.confidence(count),
		Transformation: fmt.Sprintf("read nested value at %q", src),
	}
}

// arrayAggregate is one aggregate operation over array values.
type arrayAggregate struct {
	name  string
	match valueMatch
}

// arrayAggregates are probed in order after element access; the first
// operation with the best consistent count wins.
var arrayAggregates = []arrayAggregate{
	{"count of", matchArrayCount},
	{"sum of", matchArrayNumeric(func(acc []float64) float64 { return sum(acc) })},
	{"average of", matchArrayNumeric(func(acc []float64) float64 { return sum(acc) / float64(len(acc)) })},
	{"maximum of", matchArrayNumeric(maxOf)},
	{"minimum of", matchArrayNumeric(minOf)},
	{"joined values of", matchArrayJoin},
}

// detectListAggregation derives the output from an array: either a single
// element accessed by index, or an aggregate over the whole array.
func detectListAggregation(ctx *fieldContext) *Pattern {
	if pi, count := ctx.bestMatch(indexedPaths, document.Value.Equal); count > 0 {
		src := ctx.paths[pi].String()

		return &Pattern{
			Type:           PatternListAggregation,
			SourcePath:     src,
			TargetPath:     ctx.targetPath,
			Confidence:     ctx.confidence(count),
			Transformation: fmt.Sprintf("take array element %q", src),
		}
	}

	for _, agg := range arrayAggregates {
		pi, count := ctx.bestMatch(anyPath, agg.match)
		if count == 0 {
			continue
		}

		src := ctx.paths[pi].String()

		return &Pattern{
			Type:           PatternListAggregation,
			SourcePath:     src,
			TargetPath:     ctx.targetPath,
			Confidence:     ctx.confidence(count),
			Transformation: fmt.Sprintf("%s array %q", agg.name, src),
		}
	}

	return nil
}

func matchArrayCount(in, out document.Value) bool {
	if in.Kind() != document.KindArray || out.Kind() != document.KindNumber {
		return false
	}

	return float64(len(in.Elems())) == out.NumberVal()
}

func matchArrayNumeric(aggregate func([]float64) float64) valueMatch {
	return func(in, out document.Value) bool {
		if in.Kind() != document.KindArray || len(in.Elems()) == 0 {
			return false
		}

		outNum, ok := numericValue(out)
		if !ok {
			return false
		}

		nums := make([]float64, 0, len(in.Elems()))

		for _, e := range in.Elems() {
			f, ok := numericValue(e)
			if !ok {
				return false
			}

			nums = append(nums, f)
		}

		return approxEqual(aggregate(nums), outNum)
	}
}

var joinSeparators = []string{", ", ",", " ", "; ", "|"}

func matchArrayJoin(in, out document.Value) bool {
	if in.Kind() != document.KindArray || out.Kind() != document.KindString || len(in.Elems()) == 0 {
		return false
	}

	parts := make([]string, 0, len(in.Elems()))

	for _, e := range in.Elems() {
		s, ok := scalarString(e)
		if !ok {
			return false
		}

		parts = append(parts, s)
	}

	for _, sep := range joinSeparators {
		if strings.Join(parts, sep) == out.StringVal() {
			return true
		}
	}

	return false
}

func sum(nums []float64) float64 {
	total := 0.0
	for _, f := range nums {
		total += f
	}

	return total
}

func maxOf(nums []float64) float64 {
	best := nums[0]
	for _, f := range nums[1:] {
		if f > best {
			best = f
		}
	}

	return best
}

func minOf(nums []float64) float64 {
	best := nums[0]
	for _, f := range nums[1:] {
		if f < best {
			best = f
		}
	}

	return best
}

// detectTypeConversion matches the output only after numeric or string
// coercion of an input value.
func detectTypeConversion(ctx *fieldContext) *Pattern {
	pi, count := ctx.bestMatch(anyPath, coercedEqual)
	if count == 0 {
		return nil
	}

	src := ctx.paths[pi].String()
	in, out := ctx.firstMatchPair(pi, coercedEqual)

	return &Pattern{
		Type:           PatternTypeConversion,
		SourcePath:     src,
		TargetPath:     ctx.targetPath,
		Confidence:     ctx.confidence(count),
		Transformation: fmt.Sprintf("convert %q from %s to %s", src, in.Kind(), out.Kind()),
	}
}

// detectBooleanConversion finds an input field whose small categorical
// domain maps consistently to the boolean output.
func detectBooleanConversion(ctx *fieldContext) *Pattern {
	isBool := func(v document.Value) bool { return v.Kind() == document.KindBool }

	pi, count, entries := ctx.bestGroupedMapping(isBool)
	if count == 0 {
		return nil
	}

	src := ctx.paths[pi].String()

	return &Pattern{
		Type:           PatternBooleanConversion,
		SourcePath:     src,
		TargetPath:     ctx.targetPath,
		Confidence:     ctx.confidence(count),
		Transformation: fmt.Sprintf("map %q to boolean (%s)", src, formatMappingEntries(entries)),
	}
}

// concatSeparators are probed in order when reconstructing an output
// string from multiple input values.
var concatSeparators = []string{" ", "", ", ", ",", " - ", "-", "_", "/", ": "}

// detectConcatenation reconstructs a string output from two or three
// scalar input values and a separator.
func detectConcatenation(ctx *fieldContext) *Pattern {
	scalarIdx := ctx.scalarPathIndexes()
	if len(scalarIdx) < 2 || len(scalarIdx) > 40 {
		return nil
	}

	type combo struct {
		parts []int
		sep   string
	}

	var best combo

	bestCount := 0

	tryCombo := func(parts []int, sep string) {
		count := 0

		for i := 0; i < ctx.total; i++ {
			out := ctx.outputs[i]
			if !out.ok || out.val.Kind() != document.KindString {
				continue
			}

			joined, ok := ctx.joinParts(parts, i, sep)
			if ok && joined == out.val.StringVal() {
				count++
			}
		}

		if count > bestCount {
			best = combo{parts: append([]int(nil), parts...), sep: sep}
			bestCount = count
		}
	}

	for _, p1 := range scalarIdx {
		for _, p2 := range scalarIdx {
			if p1 == p2 {
				continue
			}

			for _, sep := range concatSeparators {
				tryCombo([]int{p1, p2}, sep)
			}
		}
	}

	if bestCount == 0 && len(scalarIdx) <= 12 {
		for _, p1 := range scalarIdx {
			for _, p2 := range scalarIdx {
				for _, p3 := range scalarIdx {
					if p1 == p2 || p2 == p3 || p1 == p3 {
						continue
					}

					for _, sep := range concatSeparators {
						tryCombo([]int{p1, p2, p3}, sep)
					}
				}
			}
		}
	}

	if bestCount == 0 {
		return nil
	}

	names := make([]string, len(best.parts))
	for i, pi := range best.parts {
		names[i] = fmt.Sprintf("%q", ctx.paths[pi].String())
	}

	return &Pattern{
		Type:           PatternConcatenation,
		SourcePath:     ctx.paths[best.parts[0]].String(),
		TargetPath:     ctx.targetPath,
		Confidence:     ctx.confidence(bestCount),
		Transformation: fmt.Sprintf("concatenate %s with separator %q", strings.Join(names, " + "), best.sep),
	}
}

// stringFormat is one string-shaping operation probed by the
// string_formatting detector.
type stringFormat struct {
	name  string
	match func(in, out string) bool
}

var stringFormats = []stringFormat{
	{"uppercase", func(in, out string) bool { return in != out && strings.ToUpper(in) == out }},
	{"lowercase", func(in, out string) bool { return in != out && strings.ToLower(in) == out }},
	{"extract prefix of", func(in, out string) bool {
		return out != "" && len(out) < len(in) && strings.HasPrefix(in, out)
	}},
	{"extract suffix of", func(in, out string) bool {
		return out != "" && len(out) < len(in) && strings.HasSuffix(in, out)
	}},
	{"extract substring of", func(in, out string) bool {
		return out != "" && len(out) < len(in) && strings.Contains(in, out)
	}},
}

// detectStringFormatting matches case changes and substring extraction
// from a single input string.
func detectStringFormatting(ctx *fieldContext) *Pattern {
	for _, f := range stringFormats {
		match := func(in, out document.Value) bool {
			if in.Kind() != document.KindString || out.Kind() != document.KindString {
				return false
			}

			return f.match(in.StringVal(), out.StringVal())
		}

		pi, count := ctx.bestMatch(anyPath, match)
		if count == 0 {
			continue
		}

		src := ctx.paths[pi].String()

		return &Pattern{
			Type:           PatternStringFormatting,
			SourcePath:     src,
			TargetPath:     ctx.targetPath,
			Confidence:     ctx.confidence(count),
			Transformation: fmt.Sprintf("%s %q", f.name, src),
		}
	}

	return nil
}

// detectMathOperation finds a constant scale factor or offset between a
// numeric input and the numeric output, e.g. a unit conversion.
func detectMathOperation(ctx *fieldContext) *Pattern {
	type candidate struct {
		pi     int
		factor float64
		offset bool
	}

	var best candidate

	bestCount := 0

	for pi := range ctx.paths {
		ratios, offsets := ctx.numericRelations(pi)

		if f, count := modalValue(ratios); count > bestCount && count >= 2 && !approxEqual(f, 1) {
			best, bestCount = candidate{pi: pi, factor: f}, count
		}

		if f, count := modalValue(offsets); count > bestCount && count >= 2 && !approxEqual(f, 0) {
			best, bestCount = candidate{pi: pi, factor: f, offset: true}, count
		}
	}

	if bestCount == 0 {
		return nil
	}

	src := ctx.paths[best.pi].String()

	verb := fmt.Sprintf("multiply %q by %s", src, document.FormatNumber(best.factor))
	if best.offset {
		verb = fmt.Sprintf("add %s to %q", document.FormatNumber(best.factor), src)
	}

	return &Pattern{
		Type:           PatternMathOperation,
		SourcePath:     src,
		TargetPath:     ctx.targetPath,
		Confidence:     ctx.confidence(bestCount),
		Transformation: verb,
	}
}

// detectConditional fires when the output takes exactly two distinct
// non-boolean values perfectly keyed by one input field.
func detectConditional(ctx *fieldContext) *Pattern {
	notBool := func(v document.Value) bool { return v.Kind() != document.KindBool }

	pi, count, entries := ctx.bestGroupedMapping(notBool)
	if count == 0 || distinctOutputs(entries) != 2 || allEntriesTemporal(entries) {
		return nil
	}

	src := ctx.paths[pi].String()

	return &Pattern{
		Type:           PatternConditional,
		SourcePath:     src,
		TargetPath:     ctx.targetPath,
		Confidence:     ctx.confidence(count),
		Transformation: fmt.Sprintf("choose value depending on %q (%s)", src, formatMappingEntries(entries)),
	}
}

// detectValueMapping is the general discrete categorical mapping.
func detectValueMapping(ctx *fieldContext) *Pattern {
	anyValue := func(document.Value) bool { return true }

	pi, count, entries := ctx.bestGroupedMapping(anyValue)
	if count == 0 || allEntriesTemporal(entries) {
		return nil
	}

	src := ctx.paths[pi].String()

	return &Pattern{
		Type:           PatternValueMapping,
		SourcePath:     src,
		TargetPath:     ctx.targetPath,
		Confidence:     ctx.confidence(count),
		Transformation: fmt.Sprintf("map values of %q (%s)", src, formatMappingEntries(entries)),
	}
}

// detectDefaultValue catches constant outputs the stricter constant
// detector skipped: the value may occur somewhere in an input, but no
// earlier detector found a consistent source for it.
func detectDefaultValue(ctx *fieldContext) *Pattern {
	var present []document.Value

	for _, out := range ctx.outputs {
		if out.ok {
			present = append(present, out.val)
		}
	}

	constant, ok := common.First(present)
	if !ok {
		return nil
	}

	for _, v := range present[1:] {
		if !v.Equal(constant) {
			return nil
		}
	}

	count := len(present)

	return &Pattern{
		Type:           PatternDefaultValue,
		TargetPath:     ctx.targetPath,
		Confidence:     ctx.confidence(count),
		Transformation: fmt.Sprintf("default value %s", constant.Canonical()),
	}
}

// detectDateParsing matches temporal strings reformatted between layouts,
// including datetime-to-date truncation.
func detectDateParsing(ctx *fieldContext) *Pattern {
	pi, count := ctx.bestMatch(anyPath, matchReformattedDate)
	if count == 0 {
		return nil
	}

	src := ctx.paths[pi].String()

	return &Pattern{
		Type:           PatternDateParsing,
		SourcePath:     src,
		TargetPath:     ctx.targetPath,
		Confidence:     ctx.confidence(count),
		Transformation: fmt.Sprintf("parse and reformat date from %q", src),
	}
}

func matchReformattedDate(in, out document.Value) bool {
	if in.Kind() != document.KindString || out.Kind() != document.KindString {
		return false
	}

	if in.StringVal() == out.StringVal() {
		return false
	}

	inT, _, ok := schema.ParseTemporal(in.StringVal())
	if !ok {
		return false
	}

	outT, _, ok := schema.ParseTemporal(out.StringVal())
	if !ok {
		return false
	}

	switch schema.Classify(out) {
	case schema.TypeDate:
		y1, m1, d1 := inT.Date()
		y2, m2, d2 := outT.Date()

		return y1 == y2 && m1 == m2 && d1 == d2
	case schema.TypeTime:
		h1, min1, s1 := inT.Clock()
		h2, min2, s2 := outT.Clock()

		return h1 == h2 && min1 == min2 && s1 == s2
	default:
		return inT.Equal(outT)
	}
}

// detectCustom is the fallback: the field exists in the output but no
// detector explained it, so custom logic is required downstream.
func detectCustom(ctx *fieldContext) *Pattern {
	if ctx.presentOutputs() == 0 {
		return nil
	}

	return &Pattern{
		Type:           PatternCustom,
		TargetPath:     ctx.targetPath,
		Confidence:     customFallbackConfidence,
		Transformation: "no consistent transformation detected; custom logic required",
	}
}

// mapEntry is one input-to-output association of a discrete mapping.
type mapEntry struct {
	in     string
	out    string
	inVal  document.Value
	outVal document.Value
}

// allEntriesTemporal reports whether every association maps a temporal
// string to a temporal string. Such mappings are reformatted dates, not
// categorical mappings, and belong to the date_parsing detector.
func allEntriesTemporal(entries []mapEntry) bool {
	if len(entries) == 0 {
		return false
	}

	for _, e := range entries {
		if !schema.Classify(e.inVal).IsTemporal() || !schema.Classify(e.outVal).IsTemporal() {
			return false
		}
	}

	return true
}

// bestGroupedMapping finds the scalar input path whose value groups map
// most consistently to the output. A group of examples sharing an input
// value is consistent when every output in the group is present, equal,
// and accepted; the score is the total size of consistent groups. At
// least two distinct input values are required, otherwise the field is a
// constant, not a mapping.
func (ctx *fieldContext) bestGroupedMapping(accept func(document.Value) bool) (int, int, []mapEntry) {
	bestIdx := -1
	bestCount := 0

	var bestEntries []mapEntry

	for pi := range ctx.paths {
		count, groups, entries := ctx.groupConsistency(pi, accept)

		if groups >= 2 && count > bestCount {
			bestIdx, bestCount, bestEntries = pi, count, entries
		}
	}

	return bestIdx, bestCount, bestEntries
}

func (ctx *fieldContext) groupConsistency(pi int, accept func(document.Value) bool) (int, int, []mapEntry) {
	type group struct {
		in         document.Value
		out        document.Value
		size       int
		consistent bool
	}

	groups := map[string]*group{}

	for i := 0; i < ctx.total; i++ {
		in := ctx.pathValues[pi][i]
		if !in.ok || !in.val.Kind().IsScalar() {
			continue
		}

		key := in.val.Canonical()

		g, seen := groups[key]
		if !seen {
			g = &group{in: in.val, consistent: true}
			groups[key] = g
		}

		g.size++

		out := ctx.outputs[i]

		switch {
		case !out.ok || !accept(out.val):
			g.consistent = false
		case g.size == 1:
			g.out = out.val
		case !out.val.Equal(g.out):
			g.consistent = false
		}
	}

	count := 0

	var entries []mapEntry

	for _, g := range groups {
		if g.consistent {
			count += g.size

			entries = append(entries, mapEntry{
				in:     g.in.Canonical(),
				out:    g.out.Canonical(),
				inVal:  g.in,
				outVal: g.out,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].in < entries[j].in })

	return count, len(groups), entries
}

const maxDescribedEntries = 4

func formatMappingEntries(entries []mapEntry) string {
	parts := make([]string, 0, maxDescribedEntries+1)

	for i, e := range entries {
		if i == maxDescribedEntries {
			parts = append(parts, "…")

			break
		}

		parts = append(parts, e.in+"→"+e.out)
	}

	return strings.Join(parts, ", ")
}

func distinctOutputs(entries []mapEntry) int {
	seen := map[string]struct{}{}
	for _, e := range entries {
		seen[e.out] = struct{}{}
	}

	return len(seen)
}

// scalarPathIndexes returns the indexes of paths whose present values are
// all scalar, the candidate parts for concatenation.
func (ctx *fieldContext) scalarPathIndexes() []int {
	var out []int

	for pi := range ctx.paths {
		scalar := false

		for i := 0; i < ctx.total; i++ {
			in := ctx.pathValues[pi][i]
			if !in.ok {
				continue
			}

			if !in.val.Kind().IsScalar() || in.val.Kind() == document.KindNull {
				scalar = false

				break
			}

			scalar = true
		}

		if scalar {
			out = append(out, pi)
		}
	}

	return out
}

// joinParts renders the given paths' values in example i joined by sep.
func (ctx *fieldContext) joinParts(parts []int, i int, sep string) (string, bool) {
	rendered := make([]string, 0, len(parts))

	for _, pi := range parts {
		in := ctx.pathValues[pi][i]
		if !in.ok {
			return "", false
		}

		s, ok := scalarString(in.val)
		if !ok {
			return "", false
		}

		rendered = append(rendered, s)
	}

	return strings.Join(rendered, sep), true
}

// numericRelations collects per-example output/input ratios and
// output-input offsets for a path.
func (ctx *fieldContext) numericRelations(pi int) ([]float64, []float64) {
	var ratios, offsets []float64

	for i := 0; i < ctx.total; i++ {
		in := ctx.pathValues[pi][i]
		out := ctx.outputs[i]

		if !in.ok || !out.ok {
			continue
		}

		inNum, ok := numericValue(in.val)
		if !ok {
			continue
		}

		outNum, ok := numericValue(out.val)
		if !ok {
			continue
		}

		if inNum != 0 {
			ratios = append(ratios, outNum/inNum)
		}

		offsets = append(offsets, outNum-inNum)
	}

	return ratios, offsets
}

// modalValue returns the most frequent value (under approximate equality)
// and its count. Ties resolve to the earliest-seen value.
func modalValue(values []float64) (float64, int) {
	bestVal := 0.0
	bestCount := 0

	for i, v := range values {
		count := 0

		for _, o := range values {
			if approxEqual(v, o) {
				count++
			}
		}

		if count > bestCount {
			bestVal, bestCount = values[i], count
		}
	}

	return bestVal, bestCount
}
