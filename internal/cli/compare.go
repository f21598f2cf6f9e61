package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pmatysiak/relbench/internal/aggregate"
	"github.com/pmatysiak/relbench/internal/model"
)

var resultsDir string

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Render the comparison table from a previous run",
	Long: `Compare re-reads the per-technique result files written by an earlier
run or eval, rebuilds the ranking and prints the comparison table.

Example:
  relbench compare --results results`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&resultsDir, "results", "results", "directory holding <technique>_results.json files")
}

func runCompare(cmd *cobra.Command, args []string) error {
	aggregates, err := loadAggregates(resultsDir)
	if err != nil {
		return err
	}
	if len(aggregates) == 0 {
		return fmt.Errorf("no result files in %s", resultsDir)
	}

	report := aggregate.Compare(aggregates)
	aggregate.RenderTable(os.Stdout, report)
	return nil
}

// loadAggregates reads every <technique>_results.json in dir.
func loadAggregates(dir string) ([]model.AggregateResults, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_results.json"))
	if err != nil {
		return nil, err
	}

	aggregates := make([]model.AggregateResults, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var agg model.AggregateResults
		if err := json.Unmarshal(data, &agg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, nil
}
