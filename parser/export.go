package parser

import (
	"gopkg.in/yaml.v3"

	"transform-analyzer/schema"
)

// exportDoc is the YAML shape handed to the downstream code generator.
type exportDoc struct {
	NumExamples int             `yaml:"num_examples"`
	Input       exportSchema    `yaml:"input_schema"`
	Output      exportSchema    `yaml:"output_schema"`
	Patterns    []exportPattern `yaml:"patterns"`
	Warnings    []string        `yaml:"warnings,omitempty"`
}

type exportSchema struct {
	Role   string        `yaml:"role"`
	Fields []exportField `yaml:"fields"`
}

type exportField struct {
	Path     string `yaml:"path"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable,omitempty"`
	Required bool   `yaml:"required,omitempty"`
	ItemType string `yaml:"item_type,omitempty"`
}

type exportPattern struct {
	Type           string  `yaml:"type"`
	SourcePath     string  `yaml:"source_path,omitempty"`
	TargetPath     string  `yaml:"target_path"`
	Confidence     float64 `yaml:"confidence"`
	Transformation string  `yaml:"transformation"`
}

// ExportYAML serializes a parse result for the code-generation pipeline.
func ExportYAML(parsed *ParsedExamples) ([]byte, error) {
	doc := exportDoc{
		NumExamples: parsed.NumExamples,
		Input:       exportSchemaOf(parsed.InputSchema),
		Output:      exportSchemaOf(parsed.OutputSchema),
		Patterns:    make([]exportPattern, 0, len(parsed.Patterns)),
	}

	for _, p := range parsed.Patterns {
		doc.Patterns = append(doc.Patterns, exportPattern{
			Type:           p.Type.String(),
			SourcePath:     p.SourcePath,
			TargetPath:     p.TargetPath,
			Confidence:     p.Confidence,
			Transformation: p.Transformation,
		})
	}

	for _, w := range parsed.Warnings {
		doc.Warnings = append(doc.Warnings, w.String())
	}

	return yaml.Marshal(doc)
}

func exportSchemaOf(s *schema.Schema) exportSchema {
	out := exportSchema{
		Role:   s.Role.String(),
		Fields: make([]exportField, 0, len(s.Fields)),
	}

	for _, f := range s.Fields {
		ef := exportField{
			Path:     f.Path,
			Type:     f.Type.String(),
			Nullable: f.Nullable,
			Required: f.Required,
		}

		if f.Type == schema.TypeArray {
			ef.ItemType = f.ItemType.String()
		}

		out.Fields = append(out.Fields, ef)
	}

	return out
}
