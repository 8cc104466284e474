package parser

import (
	"fmt"

	"transform-analyzer/document"
	"transform-analyzer/schema"
)

// minReliableExamples is the example count below which confidence scores
// carry a reliability warning.
const minReliableExamples = 3

// ParseExamples detects transformation patterns across all example pairs.
// It infers both schemas, diffs them, and runs the detector chain per
// output field. Ambiguous or unexplained fields degrade to low-confidence
// patterns; only an empty example list is an error.
func ParseExamples(examples []Example) (*ParsedExamples, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("parse examples: empty example list: %w", schema.ErrInvalidInput)
	}

	inputs := make([]document.Value, len(examples))
	outputs := make([]document.Value, len(examples))

	for i := range examples {
		inputs[i] = examples[i].Input
		outputs[i] = examples[i].Output
	}

	inputSchema, err := schema.InferSchema(inputs, schema.RoleInput)
	if err != nil {
		return nil, err
	}

	outputSchema, err := schema.InferSchema(outputs, schema.RoleOutput)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedExamples{
		InputSchema:  inputSchema,
		OutputSchema: outputSchema,
		NumExamples:  len(examples),
		Differences:  schema.CompareSchemas(inputSchema, outputSchema),
	}

	idx := indexInputs(examples)

	for _, fieldPath := range outputSchema.Paths() {
		target, err := document.ParsePath(fieldPath)
		if err != nil {
			return nil, fmt.Errorf("parse examples: output path %q: %w", fieldPath, err)
		}

		ctx := newFieldContext(target, examples, idx)

		if p := runDetectors(ctx); p != nil {
			parsed.Patterns = append(parsed.Patterns, *p)
		}
	}

	if len(examples) < minReliableExamples {
		parsed.Warnings = append(parsed.Warnings, Warning{
			Code: "few_examples",
			Message: fmt.Sprintf(
				"only %d example(s) provided; confidence scores are unreliable below %d examples",
				len(examples), minReliableExamples),
		})
	}

	return parsed, nil
}
