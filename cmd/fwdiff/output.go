package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/fwdiff/internal/forward"
)

// namedResult is one row of command output.
type namedResult struct {
	Name       string             `json:"name" yaml:"name"`
	Value      float64            `json:"value" yaml:"value"`
	Derivative map[string]float64 `json:"derivative" yaml:"derivative"`
}

func named(names []string, results []forward.Result) []namedResult {
	out := make([]namedResult, len(results))
	for i, r := range results {
		out[i] = namedResult{Name: names[i], Value: r.Value, Derivative: r.Derivative}
	}
	return out
}

func writeResults(w io.Writer, format string, rows []namedResult) error {
	switch format {
	case "json", "yaml":
		return encode(w, format, rows)
	default:
		return writeText(w, rows)
	}
}

// encode writes v as indented json or yaml.
func encode(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeText prints one block per result. Colors are used only when w is a
// terminal.
func writeText(w io.Writer, rows []namedResult) error {
	out := termenv.NewOutput(w)
	nameColor := out.Color("#818cf8")
	partialColor := out.Color("#c084fc")

	for _, r := range rows {
		name := out.String(r.Name).Foreground(nameColor).Bold()
		if _, err := fmt.Fprintf(w, "%s = %s\n", name, formatFloat(r.Value)); err != nil {
			return err
		}
		vars := make([]string, 0, len(r.Derivative))
		for v := range r.Derivative {
			vars = append(vars, v)
		}
		sort.Strings(vars)
		for _, v := range vars {
			label := out.String("d/d" + v).Foreground(partialColor)
			if _, err := fmt.Fprintf(w, "  %s = %s\n", label, formatFloat(r.Derivative[v])); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
