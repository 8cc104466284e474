// Package schema infers field structure from example documents and
// compares the resulting schemas.
//
// Key capabilities:
//   - Recursive type inference over heterogeneous nested documents
//   - Majority-vote field typing with null and boolean handling
//   - Schema diffing (added, removed, type_changed, renamed)
//   - Sample-value rename detection via Jaccard similarity
package schema
