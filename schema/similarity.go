package schema

import (
	"transform-analyzer/document"
)

// JaccardSimilarity computes |A ∩ B| / |A ∪ B| over the canonical forms
// of two sample-value sets. The score is always within [0,1]; two empty
// sets share no evidence and score zero.
func JaccardSimilarity(a, b []document.Value) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := canonicalSet(a)
	setB := canonicalSet(b)

	inter := 0

	for k := range setA {
		if _, ok := setB[k]; ok {
			inter++
		}
	}

	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}

	return float64(inter) / float64(union)
}

func canonicalSet(values []document.Value) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v.Canonical()] = struct{}{}
	}

	return set
}
