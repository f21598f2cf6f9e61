package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmatysiak/relbench/internal/aggregate"
	"github.com/pmatysiak/relbench/internal/cache"
	"github.com/pmatysiak/relbench/internal/corpus"
	"github.com/pmatysiak/relbench/internal/eval"
	"github.com/pmatysiak/relbench/internal/llm"
	"github.com/pmatysiak/relbench/internal/model"
	"github.com/pmatysiak/relbench/internal/parse"
	"github.com/pmatysiak/relbench/internal/prompt"
	"github.com/pmatysiak/relbench/internal/retrieval"
	"github.com/pmatysiak/relbench/internal/worker"
)

// Pipeline orchestrates the complete benchmark run: load gold corpus,
// prompt the model with each configured technique, parse and resolve the
// responses, evaluate against gold, aggregate and compare.
type Pipeline struct {
	config *model.Config
}

// New creates a pipeline with the given configuration.
func New(cfg *model.Config) *Pipeline {
	return &Pipeline{config: cfg}
}

// Run executes the full benchmark.
func (p *Pipeline) Run(ctx context.Context) (*model.ComparisonReport, error) {
	docs, registry, err := p.loadCorpus()
	if err != nil {
		return nil, err
	}

	client, err := p.newClient()
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}

	store, err := p.buildStore(ctx, client)
	if err != nil {
		return nil, err
	}

	prompters, err := prompt.NewPrompters(p.config.Techniques, client, registry, store, p.config.RAG.TopK)
	if err != nil {
		return nil, err
	}

	resolver := parse.NewResolver(registry)
	parser := parse.NewParser(resolver)
	evaluator := eval.NewEvaluator(resolver, p.config.Concurrency.Workers)
	aggregator := aggregate.NewAggregator(p.config.Output.PerDocument)

	aggregates := make([]model.AggregateResults, 0, len(prompters))
	for _, prompter := range prompters {
		fmt.Printf("Running technique %s over %d documents...\n", prompter.Name(), len(docs))

		predictions := p.collectPredictions(ctx, prompter, parser, docs)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		agg := p.evaluateTechnique(evaluator, aggregator, prompter.Name(), predictions, docs)
		if path, err := aggregate.SaveTechniqueResults(p.config.Output.Dir, agg); err != nil {
			return nil, err
		} else if p.config.Output.Verbose {
			fmt.Printf("Wrote %s\n", path)
		}
		aggregates = append(aggregates, agg)
	}

	return p.finish(aggregates)
}

// EvaluateStored scores previously captured model responses instead of
// calling the API. responsesDir holds one <technique>/<doc_id>.txt file
// per response.
func (p *Pipeline) EvaluateStored(responsesDir string) (*model.ComparisonReport, error) {
	docs, registry, err := p.loadCorpus()
	if err != nil {
		return nil, err
	}

	resolver := parse.NewResolver(registry)
	parser := parse.NewParser(resolver)
	evaluator := eval.NewEvaluator(resolver, p.config.Concurrency.Workers)
	aggregator := aggregate.NewAggregator(p.config.Output.PerDocument)

	techniques, err := storedTechniques(responsesDir)
	if err != nil {
		return nil, err
	}

	aggregates := make([]model.AggregateResults, 0, len(techniques))
	for _, technique := range techniques {
		predictions := make([]model.PredictionSet, 0, len(docs))
		for _, doc := range docs {
			path := filepath.Join(responsesDir, technique, doc.DocID+".txt")
			data, err := os.ReadFile(path)
			if err != nil {
				// Missing response reads as an empty prediction set.
				predictions = append(predictions, model.PredictionSet{
					DocID:     doc.DocID,
					Technique: technique,
				})
				continue
			}
			ps := parser.Parse(string(data), doc.DocID)
			ps.Technique = technique
			predictions = append(predictions, ps)
		}

		agg := p.evaluateTechnique(evaluator, aggregator, technique, predictions, docs)
		if _, err := aggregate.SaveTechniqueResults(p.config.Output.Dir, agg); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, agg)
	}

	return p.finish(aggregates)
}

func (p *Pipeline) loadCorpus() ([]model.GoldDocument, *corpus.Registry, error) {
	docs, err := corpus.NewLoader(p.config.Corpus.GoldDir).Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading gold corpus: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("no gold documents in %s", p.config.Corpus.GoldDir)
	}

	registry := corpus.NewRegistry(p.config.Resolution.MinSimilarity)
	registry.Build(docs)
	if p.config.Output.Verbose {
		fmt.Printf("Loaded %d documents, %d global entities\n", len(docs), registry.Len())
	}
	return docs, registry, nil
}

func (p *Pipeline) newClient() (*llm.Client, error) {
	var store cache.Cache
	if p.config.Cache.Enabled {
		store = cache.NewLayeredCache(
			p.config.Cache.MemoryTTL,
			p.config.Cache.Dir,
			p.config.Cache.DiskTTL,
		)
	}

	limiter := worker.NewLimiter(
		p.config.RateLimiting.RequestsPerSecond,
		p.config.RateLimiting.BurstSize,
	)
	return llm.NewClient(p.config.API, p.config.RAG.EmbeddingModel, limiter, store)
}

// buildStore indexes the RAG source passages. Only built when the RAG
// technique is configured.
func (p *Pipeline) buildStore(ctx context.Context, client *llm.Client) (*retrieval.Store, error) {
	needed := false
	for _, name := range p.config.Techniques {
		if name == "RAG" {
			needed = true
		}
	}
	if !needed {
		return nil, nil
	}

	store := retrieval.NewStore(client)
	if err := store.AddFromDir(ctx, p.config.RAG.SourceDir); err != nil {
		return nil, fmt.Errorf("building retrieval store: %w", err)
	}
	if p.config.Output.Verbose {
		fmt.Printf("Indexed %d retrieval passages\n", store.Len())
	}
	return store, nil
}

// collectPredictions fans document prompting out over the worker pool.
// A failed document surfaces as an empty prediction set, never an error.
func (p *Pipeline) collectPredictions(ctx context.Context, prompter prompt.Prompter, parser *parse.Parser, docs []model.GoldDocument) []model.PredictionSet {
	pool := worker.NewPool(p.config.Concurrency.Workers)
	pool.Start()

	for i, doc := range docs {
		pool.Submit(&promptJob{
			index:    i,
			ctx:      ctx,
			prompter: prompter,
			parser:   parser,
			doc:      doc,
		})
	}

	predictions := make([]model.PredictionSet, len(docs))
	for _, result := range pool.Wait() {
		pr := result.(*promptResult)
		if pr.err != nil {
			fmt.Printf("Warning: %s failed on %s: %v\n", prompter.Name(), pr.set.DocID, pr.err)
		}
		predictions[pr.index] = pr.set
	}
	return predictions
}

// promptJob prompts the model for one document and parses the response.
type promptJob struct {
	index    int
	ctx      context.Context
	prompter prompt.Prompter
	parser   *parse.Parser
	doc      model.GoldDocument
}

type promptResult struct {
	index int
	set   model.PredictionSet
	err   error
}

func (r *promptResult) GetError() error { return r.err }

func (j *promptJob) Execute(context.Context) worker.Result {
	response, err := j.prompter.Extract(j.ctx, j.doc)
	if err != nil {
		return &promptResult{
			index: j.index,
			set:   model.PredictionSet{DocID: j.doc.DocID, Technique: j.prompter.Name()},
			err:   err,
		}
	}

	set := j.parser.Parse(response, j.doc.DocID)
	set.Technique = j.prompter.Name()
	return &promptResult{index: j.index, set: set}
}

func (p *Pipeline) evaluateTechnique(evaluator *eval.Evaluator, aggregator *aggregate.Aggregator, technique string, predictions []model.PredictionSet, docs []model.GoldDocument) model.AggregateResults {
	results, warnings := evaluator.Evaluate(predictions, docs)
	agg := aggregator.Aggregate(results, technique)
	agg.Warnings = warnings
	for _, w := range warnings {
		fmt.Printf("Warning: %s: %s\n", technique, w)
	}
	return agg
}

func (p *Pipeline) finish(aggregates []model.AggregateResults) (*model.ComparisonReport, error) {
	report := aggregate.Compare(aggregates)
	if _, err := aggregate.SaveReport(p.config.Output.Dir, report); err != nil {
		return nil, err
	}
	return &report, nil
}

// storedTechniques lists the technique subdirectories of a responses dir.
func storedTechniques(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading responses dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("no technique directories in %s", dir)
	}
	return names, nil
}
