package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transform-analyzer/document"
)

func mustInfer(t *testing.T, role Role, examples ...document.Value) *Schema {
	t.Helper()

	s, err := InferSchema(examples, role)
	require.NoError(t, err)

	return s
}

func TestCompareSchemasIdentical(t *testing.T) {
	s := mustInfer(t, RoleInput,
		obj("a", 1, "b", map[string]any{"c": "x"}),
		obj("a", 2, "b", map[string]any{"c": "y"}),
	)

	assert.Empty(t, CompareSchemas(s, s))
}

func TestCompareSchemasTypeChanged(t *testing.T) {
	in := mustInfer(t, RoleInput, obj("v", 1), obj("v", 2))
	out := mustInfer(t, RoleOutput, obj("v", "1"), obj("v", "2"))

	diffs := CompareSchemas(in, out)
	require.Len(t, diffs, 1)
	assert.Equal(t, DiffTypeChanged, diffs[0].Kind)
	assert.Equal(t, "v", diffs[0].Path)
	assert.Equal(t, TypeInteger, diffs[0].OldType)
	assert.Equal(t, TypeString, diffs[0].NewType)
}

func TestCompareSchemasRename(t *testing.T) {
	in := mustInfer(t, RoleInput,
		obj("city", "London", "extra", 1),
		obj("city", "Tokyo", "extra", 2),
	)
	out := mustInfer(t, RoleOutput,
		obj("location", "London"),
		obj("location", "Tokyo"),
	)

	diffs := CompareSchemas(in, out)

	var renamed, removed []Difference

	for _, d := range diffs {
		switch d.Kind {
		case DiffRenamed:
			renamed = append(renamed, d)
		case DiffRemoved:
			removed = append(removed, d)
		}
	}

	require.Len(t, renamed, 1)
	assert.Equal(t, "location", renamed[0].Path)
	assert.Equal(t, "city", renamed[0].SourcePath)
	assert.Equal(t, 1.0, renamed[0].Similarity)

	// The rename consumes "city"; only "extra" is removed.
	require.Len(t, removed, 1)
	assert.Equal(t, "extra", removed[0].Path)
}

func TestCompareSchemasAddedWhenSamplesDiffer(t *testing.T) {
	in := mustInfer(t, RoleInput, obj("city", "London"), obj("city", "Tokyo"))
	out := mustInfer(t, RoleOutput, obj("country", "UK"), obj("country", "Japan"))

	diffs := CompareSchemas(in, out)

	kinds := map[DifferenceKind]int{}
	for _, d := range diffs {
		kinds[d.Kind]++
	}

	assert.Equal(t, 1, kinds[DiffAdded])
	assert.Equal(t, 1, kinds[DiffRemoved])
	assert.Zero(t, kinds[DiffRenamed], "disjoint samples must not look like a rename")
}

func TestCompareSchemasRenameTieBreak(t *testing.T) {
	// Two input candidates with identical samples and types; the
	// lexicographically smaller path must win deterministically.
	in := mustInfer(t, RoleInput,
		obj("beta", "x", "alpha", "x"),
		obj("beta", "y", "alpha", "y"),
	)
	out := mustInfer(t, RoleOutput, obj("value", "x"), obj("value", "y"))

	diffs := CompareSchemas(in, out)

	var renamed *Difference

	for i := range diffs {
		if diffs[i].Kind == DiffRenamed {
			renamed = &diffs[i]
		}
	}

	require.NotNil(t, renamed)
	assert.Equal(t, "alpha", renamed.SourcePath)
}

func TestCompareSchemasRenameRequiresSameType(t *testing.T) {
	in := mustInfer(t, RoleInput, obj("n", 1), obj("n", 2))
	out := mustInfer(t, RoleOutput, obj("s", "1"), obj("s", "2"))

	for _, d := range CompareSchemas(in, out) {
		assert.NotEqual(t, DiffRenamed, d.Kind)
	}
}
