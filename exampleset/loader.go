// Package exampleset loads paired input/output example documents from
// YAML or JSON files. This is transport for the analyzer's own input
// type; document-format extraction (spreadsheets, PDFs, scrapers) lives
// outside this module.
package exampleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"transform-analyzer/document"
	"transform-analyzer/parser"
)

// fileDoc is the on-disk shape of an example set.
type fileDoc struct {
	Examples []pairDoc `yaml:"examples"`
}

type pairDoc struct {
	Input  any `yaml:"input"`
	Output any `yaml:"output"`
}

// LoadFile loads and parses an example-set file from the given path.
func LoadFile(path string) ([]parser.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read example file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses example-set data. YAML 1.2 is a JSON superset, so a single
// yaml.v3 decode handles both formats.
func Parse(data []byte) ([]parser.Example, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse example set: %w", err)
	}

	examples := make([]parser.Example, 0, len(doc.Examples))

	for i, pair := range doc.Examples {
		in, err := document.FromAny(pair.Input)
		if err != nil {
			return nil, fmt.Errorf("example %d input: %w", i, err)
		}

		out, err := document.FromAny(pair.Output)
		if err != nil {
			return nil, fmt.Errorf("example %d output: %w", i, err)
		}

		examples = append(examples, parser.Example{Input: in, Output: out})
	}

	return examples, nil
}

// Marshal serializes examples back to YAML, the inverse of Parse.
func Marshal(examples []parser.Example) ([]byte, error) {
	doc := fileDoc{Examples: make([]pairDoc, 0, len(examples))}

	for _, ex := range examples {
		doc.Examples = append(doc.Examples, pairDoc{
			Input:  ex.Input.ToAny(),
			Output: ex.Output.ToAny(),
		})
	}

	return yaml.Marshal(doc)
}
