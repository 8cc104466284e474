// Package parser detects field-level transformation patterns from paired
// input/output example documents.
//
// Detection pipeline:
//  1. Infer input and output schemas from the example pairs
//  2. Diff the schemas (renames, additions, type changes)
//  3. For each output field, run an ordered chain of detectors;
//     the first detector producing a non-zero-confidence pattern wins
//  4. Score each pattern by the fraction of examples it held across
//  5. Emit warnings (few examples, undetectable fields)
//
// Ambiguity never fails a parse: fields with no consistent transformation
// degrade to a low-confidence custom pattern instead of an error.
package parser
