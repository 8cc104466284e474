package schema

import (
	"errors"

	"transform-analyzer/document"
	"transform-analyzer/internal/common"
)

// ErrInvalidInput reports caller misuse: an empty example list or an
// example that is not a document.
var ErrInvalidInput = errors.New("invalid input")

// FieldType classifies the inferred type of a schema field.
type FieldType int

const (
	TypeUnknown FieldType = iota
	TypeString
	TypeInteger
	TypeFloat
	TypeDecimal
	TypeBoolean
	TypeDate
	TypeDatetime
	TypeTime
	TypeNull
	TypeArray
	TypeObject
)

// String returns the wire name of the field type.
func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeDecimal:
		return "decimal"
	case TypeBoolean:
		return "boolean"
	case TypeDate:
		return "date"
	case TypeDatetime:
		return "datetime"
	case TypeTime:
		return "time"
	case TypeNull:
		return "null"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return common.UnknownStr
	}
}

// Role tags which side of the example pairs a schema was inferred from.
type Role int

const (
	RoleInput Role = iota
	RoleOutput
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	default:
		return common.UnknownStr
	}
}

// Field describes a single dot-path field of an inferred schema.
type Field struct {
	// Path is the dot-path of the field within the document.
	Path string
	// Type is the majority-vote inferred type.
	Type FieldType
	// Nullable is true if any example held null at this path.
	Nullable bool
	// Required is true if the field was present and non-null in every example.
	Required bool
	// NestingLevel is zero for top-level fields, one for "a.b", and so on.
	NestingLevel int
	// Samples holds up to three distinct observed values, deduplicated by
	// canonical form.
	Samples []document.Value
	// ItemType is the element type for array fields, TypeUnknown otherwise
	// (and for empty or mixed arrays).
	ItemType FieldType
}

// Schema is the inferred field structure of a set of example documents.
// Fields are ordered by first observation and unique by path.
type Schema struct {
	Role        Role
	NumExamples int
	Fields      []Field

	byPath map[string]int
}

// FieldByPath returns the field at the given dot-path, or nil.
func (s *Schema) FieldByPath(path string) *Field {
	i, ok := s.byPath[path]
	if !ok {
		return nil
	}

	return &s.Fields[i]
}

// Paths returns the field paths in schema order.
func (s *Schema) Paths() []string {
	out := make([]string, len(s.Fields))
	for i := range s.Fields {
		out[i] = s.Fields[i].Path
	}

	return out
}

// DifferenceKind classifies a single schema difference.
type DifferenceKind int

const (
	DiffAdded DifferenceKind = iota
	DiffRemoved
	DiffTypeChanged
	DiffRenamed
)

// String returns the wire name of the difference kind.
func (k DifferenceKind) String() string {
	switch k {
	case DiffAdded:
		return "added"
	case DiffRemoved:
		return "removed"
	case DiffTypeChanged:
		return "type_changed"
	case DiffRenamed:
		return "renamed"
	default:
		return common.UnknownStr
	}
}

// Difference is a single structural difference between two schemas.
type Difference struct {
	Kind DifferenceKind
	// Path is the affected field path (the output-side path for renames).
	Path string
	// OldType and NewType are set for type_changed differences.
	OldType FieldType
	NewType FieldType
	// SourcePath is the matched input-side path for renamed differences.
	SourcePath string
	// Similarity is the sample-value Jaccard score backing a rename.
	Similarity float64
}
