package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is a single step of a Path: either an object key or an array index.
type Segment struct {
	Name  string
	Index int
	IsIdx bool
}

// Path addresses a location inside a document. Rendering uses dot notation
// with bracketed array indices, e.g. "items[0].name".
type Path struct {
	segments []Segment
}

// NewPath creates a path from object-key segments.
func NewPath(names ...string) Path {
	segs := make([]Segment, 0, len(names))
	for _, n := range names {
		segs = append(segs, Segment{Name: n})
	}

	return Path{segments: segs}
}

// Key returns a new path extended by an object key.
func (p Path) Key(name string) Path {
	segs := make([]Segment, len(p.segments), len(p.segments)+1)
	copy(segs, p.segments)

	return Path{segments: append(segs, Segment{Name: name})}
}

// Index returns a new path extended by an array index.
func (p Path) Index(i int) Path {
	segs := make([]Segment, len(p.segments), len(p.segments)+1)
	copy(segs, p.segments)

	return Path{segments: append(segs, Segment{Index: i, IsIdx: true})}
}

// Segments returns the path's segments.
func (p Path) Segments() []Segment { return p.segments }

// IsRoot returns true for the empty path.
func (p Path) IsRoot() bool { return len(p.segments) == 0 }

// Depth returns the number of object-key segments in the path. Array
// indices do not add depth: "items[0]" is depth 1, "a.b" is depth 2.
func (p Path) Depth() int {
	depth := 0

	for _, s := range p.segments {
		if !s.IsIdx {
			depth++
		}
	}

	return depth
}

// HasIndex returns true if any segment is an array index.
func (p Path) HasIndex() bool {
	for _, s := range p.segments {
		if s.IsIdx {
			return true
		}
	}

	return false
}

// String renders the path in dot notation.
func (p Path) String() string {
	var sb strings.Builder

	for i, s := range p.segments {
		if s.IsIdx {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(s.Index))
			sb.WriteByte(']')

			continue
		}

		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(s.Name)
	}

	return sb.String()
}

// Lookup resolves the path against a document. The second result is false
// when any step is missing or addresses the wrong kind.
func (p Path) Lookup(doc Value) (Value, bool) {
	cur := doc

	for _, s := range p.segments {
		if s.IsIdx {
			if cur.Kind() != KindArray || s.Index < 0 || s.Index >= len(cur.Elems()) {
				return Value{}, false
			}

			cur = cur.Elems()[s.Index]

			continue
		}

		if cur.Kind() != KindObject {
			return Value{}, false
		}

		next, ok := cur.Field(s.Name)
		if !ok {
			return Value{}, false
		}

		cur = next
	}

	return cur, true
}

// ParsePath parses dot notation with bracketed indices back into a Path.
func ParsePath(s string) (Path, error) {
	var p Path

	if s == "" {
		return p, nil
	}

	for _, part := range strings.Split(s, ".") {
		for part != "" {
			bracket := strings.IndexByte(part, '[')
			if bracket == -1 {
				p = p.Key(part)

				break
			}

			if bracket > 0 {
				p = p.Key(part[:bracket])
			}

			end := strings.IndexByte(part, ']')
			if end < bracket {
				return Path{}, fmt.Errorf("malformed path segment %q", part)
			}

			idx, err := strconv.Atoi(part[bracket+1 : end])
			if err != nil {
				return Path{}, fmt.Errorf("malformed index in path segment %q: %w", part, err)
			}

			p = p.Index(idx)
			part = part[end+1:]
		}
	}

	return p, nil
}

// Node is an addressed value discovered during traversal.
type Node struct {
	Path  Path
	Value Value
}

// FlattenFields flattens a document into schema-level fields: objects
// descend, while arrays and scalars are leaves. The root of a non-object
// document is returned as a single node with the empty path.
func FlattenFields(doc Value) []Node {
	if doc.Kind() != KindObject {
		return []Node{{Path: Path{}, Value: doc}}
	}

	var out []Node

	flattenInto(Path{}, doc, &out)

	return out
}

func flattenInto(prefix Path, v Value, out *[]Node) {
	for _, m := range v.Members() {
		p := prefix.Key(m.Key)

		if m.Value.Kind() == KindObject {
			flattenInto(p, m.Value, out)

			continue
		}

		*out = append(*out, Node{Path: p, Value: m.Value})
	}
}

// EnumeratePaths walks every addressable location of a document, descending
// through both object members and array elements. Every non-root node is
// reported, containers included, so value search can match whole arrays
// and objects as well as scalars.
func EnumeratePaths(doc Value) []Node {
	var out []Node

	enumerateInto(Path{}, doc, &out)

	return out
}

func enumerateInto(prefix Path, v Value, out *[]Node) {
	if !prefix.IsRoot() {
		*out = append(*out, Node{Path: prefix, Value: v})
	}

	switch v.Kind() {
	case KindObject:
		for _, m := range v.Members() {
			enumerateInto(prefix.Key(m.Key), m.Value, out)
		}
	case KindArray:
		for i, e := range v.Elems() {
			enumerateInto(prefix.Index(i), e, out)
		}
	}
}
