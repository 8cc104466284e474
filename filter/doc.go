// Package filter partitions detected patterns by a confidence threshold
// and produces user-facing reliability warnings.
//
// Key capabilities:
//   - Order-preserving inclusion/exclusion at a validated threshold
//   - Named threshold presets (conservative, balanced, aggressive)
//   - Confidence-band summaries for interactive display
package filter
