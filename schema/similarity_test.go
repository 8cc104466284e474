package schema

import (
	"testing"

	"transform-analyzer/document"
)

func TestJaccardSimilarity(t *testing.T) {
	vals := func(ss ...string) []document.Value {
		out := make([]document.Value, len(ss))
		for i, s := range ss {
			out[i] = document.Str(s)
		}

		return out
	}

	tests := []struct {
		name     string
		a, b     []document.Value
		expected float64
	}{
		{"identical", vals("x", "y"), vals("x", "y"), 1.0},
		{"disjoint", vals("x"), vals("y"), 0.0},
		{"half overlap", vals("x", "y"), vals("y", "z"), 1.0 / 3.0},
		{"empty a", nil, vals("x"), 0.0},
		{"both empty", nil, nil, 0.0},
		{"duplicates collapse", vals("x", "x"), vals("x"), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JaccardSimilarity(tt.a, tt.b); got != tt.expected {
				t.Errorf("JaccardSimilarity() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestJaccardSimilarityNestedValues(t *testing.T) {
	a := []document.Value{document.Arr(document.Num(1), document.Num(2))}
	b := []document.Value{document.Arr(document.Num(1), document.Num(2))}

	if got := JaccardSimilarity(a, b); got != 1.0 {
		t.Errorf("array samples should compare by canonical form, got %v", got)
	}
}
