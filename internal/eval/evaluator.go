package eval

import (
	"context"
	"fmt"

	"github.com/pmatysiak/relbench/internal/model"
	"github.com/pmatysiak/relbench/internal/parse"
	"github.com/pmatysiak/relbench/internal/worker"
)

// Evaluator runs resolver, matcher and metrics over all documents of one
// technique. Each document is a pure function of its predictions, its gold
// relations and the registry, so documents fan out over the worker pool
// and results are restored to gold order afterward.
type Evaluator struct {
	resolver *parse.Resolver
	matcher  *Matcher
	calc     *Calculator
	workers  int
}

// NewEvaluator creates an evaluator. The resolver may be nil when the
// predictions arrive with entity IDs already filled in upstream.
func NewEvaluator(resolver *parse.Resolver, workers int) *Evaluator {
	if workers <= 0 {
		workers = 1
	}
	return &Evaluator{
		resolver: resolver,
		matcher:  NewMatcher(),
		calc:     NewCalculator(),
		workers:  workers,
	}
}

type evalJob struct {
	index     int
	docID     string
	predicted []model.PredictedRelation
	gold      []model.GoldRelation
	matcher   *Matcher
	calc      *Calculator
}

type evalResult struct {
	index  int
	result model.EvaluationResult
}

func (r *evalResult) GetError() error { return nil }

func (j *evalJob) Execute(ctx context.Context) worker.Result {
	match := j.matcher.Match(j.predicted, j.gold)
	return &evalResult{
		index:  j.index,
		result: j.calc.Compute(j.docID, match),
	}
}

// Evaluate pairs predictions with gold documents by doc_id and produces
// one result per paired document, in gold document order. Documents
// present on only one side are skipped with a warning, never an error.
func (e *Evaluator) Evaluate(predictions []model.PredictionSet, gold []model.GoldDocument) ([]model.EvaluationResult, []string) {
	var warnings []string

	byDoc := make(map[string]*model.PredictionSet, len(predictions))
	for i := range predictions {
		ps := &predictions[i]
		if _, dup := byDoc[ps.DocID]; dup {
			warnings = append(warnings, fmt.Sprintf("duplicate predictions for document %s ignored", ps.DocID))
			continue
		}
		byDoc[ps.DocID] = ps
	}

	goldIDs := make(map[string]struct{}, len(gold))
	for _, doc := range gold {
		goldIDs[doc.DocID] = struct{}{}
	}
	for i := range predictions {
		if _, ok := goldIDs[predictions[i].DocID]; !ok {
			warnings = append(warnings, fmt.Sprintf("no gold relations for document %s; skipped", predictions[i].DocID))
		}
	}

	pool := worker.NewPool(e.workers)
	pool.Start()

	submitted := 0
	for _, doc := range gold {
		ps, ok := byDoc[doc.DocID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("no predictions for document %s; skipped", doc.DocID))
			continue
		}
		if e.resolver != nil && !resolvedUpstream(ps) {
			e.resolver.ResolveSet(ps)
		}
		pool.Submit(&evalJob{
			index:     submitted,
			docID:     doc.DocID,
			predicted: ps.Relations,
			gold:      doc.Relations,
			matcher:   e.matcher,
			calc:      e.calc,
		})
		submitted++
	}

	// Restore gold document order after the parallel fan-out.
	raw := pool.Wait()
	results := make([]model.EvaluationResult, submitted)
	for _, r := range raw {
		er := r.(*evalResult)
		results[er.index] = er.result
	}
	return results, warnings
}

// resolvedUpstream reports whether the resolver already touched this set:
// either an endpoint carries an ID or a resolution error was recorded.
// Resolution happens exactly once per prediction set.
func resolvedUpstream(ps *model.PredictionSet) bool {
	if len(ps.EntityResolutionErrors) > 0 {
		return true
	}
	for _, rel := range ps.Relations {
		if rel.HeadID != "" || rel.TailID != "" {
			return true
		}
	}
	return false
}
