package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transform-analyzer/document"
)

func obj(pairs ...any) document.Value {
	members := make([]document.Member, 0, len(pairs)/2)

	for i := 0; i < len(pairs); i += 2 {
		v, err := document.FromAny(pairs[i+1])
		if err != nil {
			panic(err)
		}

		members = append(members, document.Member{Key: pairs[i].(string), Value: v})
	}

	return document.Obj(members...)
}

func TestInferSchemaEmpty(t *testing.T) {
	_, err := InferSchema(nil, RoleInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInferSchemaRejectsNonObject(t *testing.T) {
	_, err := InferSchema([]document.Value{document.Str("scalar")}, RoleInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInferSchemaBasic(t *testing.T) {
	examples := []document.Value{
		obj("name", "Ann", "age", 30),
		obj("name", "Bob", "age", 31),
	}

	s, err := InferSchema(examples, RoleInput)
	require.NoError(t, err)

	assert.Equal(t, RoleInput, s.Role)
	assert.Equal(t, 2, s.NumExamples)
	require.Len(t, s.Fields, 2)

	name := s.FieldByPath("name")
	require.NotNil(t, name)
	assert.Equal(t, TypeString, name.Type)
	assert.True(t, name.Required)
	assert.False(t, name.Nullable)
	assert.Equal(t, 0, name.NestingLevel)
	assert.Len(t, name.Samples, 2)

	age := s.FieldByPath("age")
	require.NotNil(t, age)
	assert.Equal(t, TypeInteger, age.Type)
}

func TestInferSchemaNested(t *testing.T) {
	examples := []document.Value{
		obj("user", map[string]any{"address": map[string]any{"city": "London"}}),
	}

	s, err := InferSchema(examples, RoleInput)
	require.NoError(t, err)

	f := s.FieldByPath("user.address.city")
	require.NotNil(t, f)
	assert.Equal(t, TypeString, f.Type)
	assert.Equal(t, 2, f.NestingLevel)
}

func TestInferSchemaNullability(t *testing.T) {
	examples := []document.Value{
		obj("v", "x"),
		obj("v", nil),
		obj("v", "y"),
	}

	s, err := InferSchema(examples, RoleInput)
	require.NoError(t, err)

	f := s.FieldByPath("v")
	require.NotNil(t, f)
	assert.Equal(t, TypeString, f.Type, "nulls must not vote")
	assert.True(t, f.Nullable)
	assert.False(t, f.Required)
}

func TestInferSchemaAllNull(t *testing.T) {
	examples := []document.Value{obj("v", nil), obj("v", nil)}

	s, err := InferSchema(examples, RoleInput)
	require.NoError(t, err)

	f := s.FieldByPath("v")
	require.NotNil(t, f)
	assert.Equal(t, TypeNull, f.Type)
	assert.True(t, f.Nullable)
}

func TestInferSchemaMissingField(t *testing.T) {
	examples := []document.Value{
		obj("a", 1, "b", 2),
		obj("a", 3),
	}

	s, err := InferSchema(examples, RoleInput)
	require.NoError(t, err)

	assert.True(t, s.FieldByPath("a").Required)
	assert.False(t, s.FieldByPath("b").Required)
}

func TestInferSchemaMajorityVote(t *testing.T) {
	majority := []document.Value{
		obj("x", 1),
		obj("x", 2),
		obj("x", "s"),
	}

	s, err := InferSchema(majority, RoleInput)
	require.NoError(t, err)
	assert.Equal(t, TypeInteger, s.FieldByPath("x").Type)

	tied := []document.Value{
		obj("x", 1),
		obj("x", "s"),
	}

	s, err = InferSchema(tied, RoleInput)
	require.NoError(t, err)
	assert.Equal(t, TypeUnknown, s.FieldByPath("x").Type, "a tied vote has no majority")
}

func TestInferSchemaBooleanNotInteger(t *testing.T) {
	examples := []document.Value{obj("flag", true), obj("flag", false)}

	s, err := InferSchema(examples, RoleInput)
	require.NoError(t, err)
	assert.Equal(t, TypeBoolean, s.FieldByPath("flag").Type)
}

func TestInferSchemaArrays(t *testing.T) {
	examples := []document.Value{
		obj("tags", []any{"a", "b"}, "empty", []any{}, "mixed", []any{"a", 1}, "nums", []any{1, 2.5}),
	}

	s, err := InferSchema(examples, RoleInput)
	require.NoError(t, err)

	tags := s.FieldByPath("tags")
	require.NotNil(t, tags)
	assert.Equal(t, TypeArray, tags.Type)
	assert.Equal(t, TypeString, tags.ItemType)

	assert.Equal(t, TypeUnknown, s.FieldByPath("empty").ItemType)
	assert.Equal(t, TypeUnknown, s.FieldByPath("mixed").ItemType)
	assert.Equal(t, TypeFloat, s.FieldByPath("nums").ItemType, "numeric widths unify")
}

func TestInferSchemaSampleDedup(t *testing.T) {
	examples := []document.Value{
		obj("v", "a"),
		obj("v", "a"),
		obj("v", "b"),
		obj("v", "c"),
		obj("v", "d"),
	}

	s, err := InferSchema(examples, RoleInput)
	require.NoError(t, err)

	f := s.FieldByPath("v")
	require.NotNil(t, f)
	require.Len(t, f.Samples, MaxSamples)
	assert.Equal(t, document.Str("a"), f.Samples[0])
	assert.Equal(t, document.Str("b"), f.Samples[1])
	assert.Equal(t, document.Str("c"), f.Samples[2])
}

func TestInferSchemaNestedSampleDedup(t *testing.T) {
	// Arrays are schema leaves, so array-of-object values land in Samples
	// whole. They must deduplicate by canonical form, not by hashing;
	// member order must not defeat it.
	examples := []document.Value{
		document.Obj(document.Member{Key: "v", Value: document.Arr(
			document.Obj(
				document.Member{Key: "a", Value: document.Num(1)},
				document.Member{Key: "b", Value: document.Num(2)},
			),
		)}),
		document.Obj(document.Member{Key: "v", Value: document.Arr(
			document.Obj(
				document.Member{Key: "b", Value: document.Num(2)},
				document.Member{Key: "a", Value: document.Num(1)},
			),
		)}),
	}

	s, err := InferSchema(examples, RoleInput)
	require.NoError(t, err)

	f := s.FieldByPath("v")
	require.NotNil(t, f)
	assert.Equal(t, TypeArray, f.Type)
	assert.Len(t, f.Samples, 1)
}

func TestInferSchemaDeterministic(t *testing.T) {
	examples := []document.Value{
		obj("a", 1, "b", map[string]any{"c": []any{1, 2}}, "d", "2024-01-01"),
		obj("a", 2, "b", map[string]any{"c": []any{3}}, "d", "2024-01-02"),
	}

	first, err := InferSchema(examples, RoleOutput)
	require.NoError(t, err)

	second, err := InferSchema(examples, RoleOutput)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
