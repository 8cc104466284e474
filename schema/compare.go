package schema

// RenameSimilarityCutoff is the minimum Jaccard score between sample-value
// sets for an output-only field to be reported as a rename of an
// input-only field.
const RenameSimilarityCutoff = 0.5

// CompareSchemas reports the structural differences between an input and
// an output schema. Output-only fields are checked for renames before
// being reported as added; comparing a schema with itself yields nothing.
func CompareSchemas(input, output *Schema) []Difference {
	var diffs []Difference

	consumed := map[string]bool{}

	for i := range output.Fields {
		out := &output.Fields[i]

		if in := input.FieldByPath(out.Path); in != nil {
			if in.Type != out.Type {
				diffs = append(diffs, Difference{
					Kind:    DiffTypeChanged,
					Path:    out.Path,
					OldType: in.Type,
					NewType: out.Type,
				})
			}

			continue
		}

		if src, score, ok := findRenameSource(out, input, output, consumed); ok {
			consumed[src] = true
			diffs = append(diffs, Difference{
				Kind:       DiffRenamed,
				Path:       out.Path,
				SourcePath: src,
				Similarity: score,
			})

			continue
		}

		diffs = append(diffs, Difference{Kind: DiffAdded, Path: out.Path})
	}

	for i := range input.Fields {
		in := &input.Fields[i]

		if output.FieldByPath(in.Path) == nil && !consumed[in.Path] {
			diffs = append(diffs, Difference{Kind: DiffRemoved, Path: in.Path})
		}
	}

	return diffs
}

// findRenameSource scores input-only fields of the same inferred type by
// sample-value Jaccard similarity. The best candidate at or above the
// cutoff wins; equal scores resolve to the lexicographically smallest
// source path so detection is deterministic. Each source field backs at
// most one rename.
func findRenameSource(
	out *Field,
	input, output *Schema,
	consumed map[string]bool,
) (string, float64, bool) {
	bestPath := ""
	bestScore := 0.0

	for i := range input.Fields {
		in := &input.Fields[i]

		if consumed[in.Path] || output.FieldByPath(in.Path) != nil {
			continue
		}

		if in.Type != out.Type {
			continue
		}

		score := JaccardSimilarity(in.Samples, out.Samples)
		if score < RenameSimilarityCutoff {
			continue
		}

		if score > bestScore || (score == bestScore && bestPath != "" && in.Path < bestPath) {
			bestPath, bestScore = in.Path, score
		}
	}

	return bestPath, bestScore, bestPath != ""
}
