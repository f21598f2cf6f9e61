package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pmatysiak/relbench/internal/aggregate"
	"github.com/pmatysiak/relbench/internal/model"
	"github.com/pmatysiak/relbench/internal/pipeline"
)

var (
	goldDir    string
	outputDir  string
	techniques []string
	modelName  string
	ragSources string
	workers    int
	noCache    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark: prompt, parse, evaluate and compare",
	Long: `Run prompts the configured model with every technique over every gold
document, parses and resolves the responses, evaluates them against the
gold relations and writes per-technique results plus a ranked comparison.

Example:
  relbench run --gold gold_relations --out results
  relbench run --techniques IO,CoT --model openai/gpt-4o-mini`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&goldDir, "gold", "", "gold corpus directory (one JSON file per document)")
	runCmd.Flags().StringVar(&outputDir, "out", "", "output directory for result files")
	runCmd.Flags().StringSliceVar(&techniques, "techniques", nil, "prompting techniques to run (IO, CoT, RAG, ReAct)")
	runCmd.Flags().StringVar(&modelName, "model", "", "model name on the OpenRouter endpoint")
	runCmd.Flags().StringVar(&ragSources, "rag-sources", "", "directory of .txt passages for RAG retrieval")
	runCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default: number of CPUs)")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report, err := pipeline.New(cfg).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	aggregate.RenderTable(os.Stdout, *report)
	return nil
}

// loadConfig layers defaults, the config file, environment variables and
// flags, highest priority last.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if goldDir != "" {
		cfg.Corpus.GoldDir = goldDir
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if len(techniques) > 0 {
		cfg.Techniques = techniques
	}
	if modelName != "" {
		cfg.API.Model = modelName
	}
	if ragSources != "" {
		cfg.RAG.SourceDir = ragSources
	}
	if workers > 0 {
		cfg.Concurrency.Workers = workers
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.Verbose = verbose

	if cfg.API.APIKey == "" {
		cfg.API.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	return cfg, nil
}
