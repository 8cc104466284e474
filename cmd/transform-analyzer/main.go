// Package main provides the CLI entrypoint for transform-analyzer.
//
// transform-analyzer detects, from paired input/output example documents,
// the structural transformation mapping one JSON-like shape to another:
//   - Infers input and output schemas from the examples
//   - Detects per-field transformation patterns with confidence scores
//   - Filters patterns at a confidence threshold and prints the result
package main

import (
	"flag"
	"fmt"
	"os"

	"transform-analyzer/exampleset"
	"transform-analyzer/filter"
	"transform-analyzer/parser"
)

func main() {
	var (
		preset    = flag.String("preset", "balanced", "threshold preset: conservative | balanced | aggressive")
		threshold = flag.Float64("threshold", -1, "explicit confidence threshold in [0,1]; overrides -preset")
	)

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: transform-analyzer [flags] <examples.yaml>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *preset, *threshold); err != nil {
		fmt.Fprintln(os.Stderr, "transform-analyzer:", err)
		os.Exit(1)
	}
}

func run(path, presetName string, threshold float64) error {
	examples, err := exampleset.LoadFile(path)
	if err != nil {
		return err
	}

	parsed, err := parser.ParseExamples(examples)
	if err != nil {
		return err
	}

	if threshold < 0 {
		preset, ok := filter.GetThresholdPresets()[presetName]
		if !ok {
			return fmt.Errorf("unknown preset %q", presetName)
		}

		threshold = preset.Value
	}

	pf, err := filter.NewPatternFilter(filter.DefaultThreshold)
	if err != nil {
		return err
	}

	filtered, err := pf.FilterPatterns(parsed, threshold)
	if err != nil {
		return err
	}

	fmt.Println(filter.FormatConfidenceSummary(parsed))
	fmt.Printf("threshold %.2f: %d included, %d excluded\n",
		filtered.Threshold, len(filtered.IncludedPatterns), len(filtered.ExcludedPatterns))

	for _, w := range filtered.Warnings {
		fmt.Println("warning:", w)
	}

	out, err := parser.ExportYAML(parsed)
	if err != nil {
		return err
	}

	fmt.Println("---")
	os.Stdout.Write(out)

	return nil
}
