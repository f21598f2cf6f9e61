package aggregate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pmatysiak/relbench/internal/model"
)

// SaveTechniqueResults writes one technique's aggregate record to
// <dir>/<technique>_results.json.
func SaveTechniqueResults(dir string, agg model.AggregateResults) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, agg.TechniqueName+"_results.json")
	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing results: %w", err)
	}
	return path, nil
}

// SaveReport writes the cross-technique comparison to <dir>/comparison.json.
func SaveReport(dir string, report model.ComparisonReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, "comparison.json")
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// RenderTable prints the comparison as an aligned text table.
func RenderTable(w io.Writer, report model.ComparisonReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTECHNIQUE\tDOCS\tMICRO-F1\tMACRO-F1\tFUZZY-F1\tHALLUC\tOMISSION\tGED")
	for _, e := range report.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.2f\n",
			e.Rank, e.Technique, e.Documents,
			e.MicroF1, e.MacroF1, e.FuzzyMicroF1,
			e.AvgHallucinationRate, e.AvgOmissionRate, e.AvgGraphEditDistance)
	}
	tw.Flush()
}
