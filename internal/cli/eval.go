package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmatysiak/relbench/internal/aggregate"
	"github.com/pmatysiak/relbench/internal/pipeline"
)

var responsesDir string

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate previously captured model responses",
	Long: `Eval scores responses captured in an earlier run without calling the
model API. The responses directory holds one subdirectory per technique
with one <doc_id>.txt file per document; a missing file counts as an
empty prediction.

Example:
  relbench eval --responses responses --gold gold_relations --out results`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&responsesDir, "responses", "responses", "directory of captured responses (<technique>/<doc_id>.txt)")
	evalCmd.Flags().StringVar(&goldDir, "gold", "", "gold corpus directory (one JSON file per document)")
	evalCmd.Flags().StringVar(&outputDir, "out", "", "output directory for result files")
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report, err := pipeline.New(cfg).EvaluateStored(responsesDir)
	if err != nil {
		return err
	}

	fmt.Println()
	aggregate.RenderTable(os.Stdout, *report)
	return nil
}
