package eval

import (
	"github.com/pmatysiak/relbench/internal/model"
)

// Calculator derives per-document metrics from a match result.
type Calculator struct{}

// NewCalculator creates a metrics calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute turns a match result into the full per-document metrics record.
// Every ratio is zero-guarded; no input can produce NaN or a division by
// zero.
func (c *Calculator) Compute(docID string, match MatchResult) model.EvaluationResult {
	tp := len(match.TruePositives)
	fp := len(match.FalsePositives)
	fn := len(match.FalseNegatives)
	pm := len(match.PartialMatches)

	precision := safeRatio(tp, tp+fp)
	recall := safeRatio(tp, tp+fn)

	goldDen := max(1, match.GoldCount)
	predDen := max(1, match.PredictedCount)

	redundancy := 0.0
	if match.PredictedCount > 0 {
		redundancy = float64(match.RedundantCount) / float64(match.PredictedCount)
	}

	// Partial matches cost a single relabel instead of a delete+insert
	// pair, so each one removes a unit from both the insertion and the
	// deletion term and adds one back.
	ged := float64((fn - pm) + (fp - pm) + pm)

	fuzzyTP := tp + pm
	fuzzyFP := fp - pm // non-negative by the matcher's subset invariant
	fuzzyPrecision := safeRatio(fuzzyTP, fuzzyTP+fuzzyFP)
	fuzzyRecall := safeRatio(fuzzyTP, fuzzyTP+fn)

	return model.EvaluationResult{
		DocID: docID,

		TruePositives:  match.TruePositives,
		FalsePositives: match.FalsePositives,
		FalseNegatives: match.FalseNegatives,
		PartialMatches: match.PartialMatches,

		GoldCount:      match.GoldCount,
		PredictedCount: match.PredictedCount,

		Precision: precision,
		Recall:    recall,
		F1:        harmonicMean(precision, recall),

		ExactMatchRate:    float64(tp) / float64(goldDen),
		OmissionRate:      float64(fn) / float64(goldDen),
		HallucinationRate: float64(fp-pm) / float64(predDen),
		RedundancyRate:    redundancy,
		GraphEditDistance: ged,

		FuzzyPrecision: fuzzyPrecision,
		FuzzyRecall:    fuzzyRecall,
		FuzzyF1:        harmonicMean(fuzzyPrecision, fuzzyRecall),
	}
}

func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0.0
	}
	return float64(num) / float64(den)
}

func harmonicMean(p, r float64) float64 {
	if p+r == 0 {
		return 0.0
	}
	return 2 * p * r / (p + r)
}
