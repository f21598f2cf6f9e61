package aggregate

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pmatysiak/relbench/internal/model"
)

// Aggregator reduces a technique's per-document results into macro and
// micro summary statistics, exact and fuzzy.
type Aggregator struct {
	keepPerDocument bool
}

// NewAggregator creates an aggregator. keepPerDocument controls whether
// the per-document results ride along in the aggregate record.
func NewAggregator(keepPerDocument bool) *Aggregator {
	return &Aggregator{keepPerDocument: keepPerDocument}
}

// Aggregate reduces results for one technique. Empty input returns a
// zeroed record tagged only with the technique name.
func (a *Aggregator) Aggregate(results []model.EvaluationResult, techniqueName string) model.AggregateResults {
	agg := model.AggregateResults{TechniqueName: techniqueName}
	if len(results) == 0 {
		return agg
	}

	agg.Documents = len(results)
	if a.keepPerDocument {
		agg.PerDocument = results
	}

	n := len(results)
	precision := make([]float64, n)
	recall := make([]float64, n)
	f1 := make([]float64, n)
	exactMatch := make([]float64, n)
	omission := make([]float64, n)
	hallucination := make([]float64, n)
	redundancy := make([]float64, n)
	ged := make([]float64, n)
	partials := make([]float64, n)
	fuzzyPrecision := make([]float64, n)
	fuzzyRecall := make([]float64, n)
	fuzzyF1 := make([]float64, n)

	for i, r := range results {
		precision[i] = r.Precision
		recall[i] = r.Recall
		f1[i] = r.F1
		exactMatch[i] = r.ExactMatchRate
		omission[i] = r.OmissionRate
		hallucination[i] = r.HallucinationRate
		redundancy[i] = r.RedundancyRate
		ged[i] = r.GraphEditDistance
		partials[i] = float64(len(r.PartialMatches))
		fuzzyPrecision[i] = r.FuzzyPrecision
		fuzzyRecall[i] = r.FuzzyRecall
		fuzzyF1[i] = r.FuzzyF1

		agg.TotalTruePositives += len(r.TruePositives)
		agg.TotalFalsePositives += len(r.FalsePositives)
		agg.TotalFalseNegatives += len(r.FalseNegatives)
		agg.TotalPartialMatches += len(r.PartialMatches)
	}

	// Macro: every document weighs the same.
	agg.MacroPrecision = stat.Mean(precision, nil)
	agg.MacroRecall = stat.Mean(recall, nil)
	agg.MacroF1 = stat.Mean(f1, nil)
	agg.AvgExactMatchRate = stat.Mean(exactMatch, nil)
	agg.AvgOmissionRate = stat.Mean(omission, nil)
	agg.AvgHallucinationRate = stat.Mean(hallucination, nil)
	agg.AvgRedundancyRate = stat.Mean(redundancy, nil)
	agg.AvgGraphEditDistance = stat.Mean(ged, nil)
	agg.AvgPartialMatches = stat.Mean(partials, nil)
	agg.FuzzyMacroPrecision = stat.Mean(fuzzyPrecision, nil)
	agg.FuzzyMacroRecall = stat.Mean(fuzzyRecall, nil)
	agg.FuzzyMacroF1 = stat.Mean(fuzzyF1, nil)
	if n > 1 {
		agg.StdDevF1 = stat.StdDev(f1, nil)
	}

	// Micro: recompute from summed confusion counts, weighting documents
	// by how many relations they carry.
	tp, fp, fn := agg.TotalTruePositives, agg.TotalFalsePositives, agg.TotalFalseNegatives
	agg.MicroPrecision = safeRatio(tp, tp+fp)
	agg.MicroRecall = safeRatio(tp, tp+fn)
	agg.MicroF1 = harmonicMean(agg.MicroPrecision, agg.MicroRecall)

	// Fuzzy micro: partial matches promote from FP to TP. The matcher's
	// subset invariant keeps the fuzzy FP count non-negative.
	fuzzyTP := tp + agg.TotalPartialMatches
	fuzzyFP := fp - agg.TotalPartialMatches
	agg.FuzzyMicroPrecision = safeRatio(fuzzyTP, fuzzyTP+fuzzyFP)
	agg.FuzzyMicroRecall = safeRatio(fuzzyTP, fuzzyTP+fn)
	agg.FuzzyMicroF1 = harmonicMean(agg.FuzzyMicroPrecision, agg.FuzzyMicroRecall)

	return agg
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
