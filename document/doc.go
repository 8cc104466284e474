// Package document models JSON-like example documents as a closed
// recursive value variant.
//
// Key capabilities:
//   - Kind-tagged Value type (string, number, bool, null, array, object)
//   - Decoding from the generic trees produced by encoding/json and yaml.v3
//   - Canonical serialized form for stable comparison and deduplication
//   - Dot-paths with array-index segments and exhaustive path enumeration
package document
