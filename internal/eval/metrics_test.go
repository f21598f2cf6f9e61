package eval

import (
	"math"
	"testing"

	"github.com/pmatysiak/relbench/internal/model"
)

const tol = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < tol }

func computeFor(t *testing.T, predicted []model.PredictedRelation, gold []model.GoldRelation) model.EvaluationResult {
	t.Helper()
	match := NewMatcher().Match(predicted, gold)
	return NewCalculator().Compute("doc", match)
}

func TestMetrics_PerfectPrediction(t *testing.T) {
	// gold=[(A,B,Association)], predicted=[(A,B,Association)]
	r := computeFor(t,
		[]model.PredictedRelation{pred("A", "B", "Association")},
		[]model.GoldRelation{goldRel("A", "B", "Association")},
	)

	if !approx(r.Precision, 1.0) || !approx(r.Recall, 1.0) || !approx(r.F1, 1.0) {
		t.Errorf("expected P=R=F1=1.0, got P=%v R=%v F1=%v", r.Precision, r.Recall, r.F1)
	}
	if !approx(r.ExactMatchRate, 1.0) || !approx(r.GraphEditDistance, 0.0) {
		t.Errorf("expected exact=1 GED=0, got exact=%v GED=%v", r.ExactMatchRate, r.GraphEditDistance)
	}
}

func TestMetrics_TotalOmission(t *testing.T) {
	// gold=[(A,B,Association)], predicted=[]
	r := computeFor(t, nil, []model.GoldRelation{goldRel("A", "B", "Association")})

	if len(r.FalseNegatives) != 1 {
		t.Fatalf("expected FN=1, got %d", len(r.FalseNegatives))
	}
	if !approx(r.Recall, 0.0) || !approx(r.OmissionRate, 1.0) {
		t.Errorf("expected recall=0 omission=1, got recall=%v omission=%v", r.Recall, r.OmissionRate)
	}
}

func TestMetrics_PartialMatchFuzzyScoring(t *testing.T) {
	// gold=[(A,B,Association)], predicted=[(A,B,Positive_Correlation)]
	r := computeFor(t,
		[]model.PredictedRelation{pred("A", "B", "Positive_Correlation")},
		[]model.GoldRelation{goldRel("A", "B", "Association")},
	)

	if len(r.PartialMatches) != 1 || len(r.TruePositives) != 0 || len(r.FalsePositives) != 1 {
		t.Fatalf("expected PM=1 TP=0 FP=1, got PM=%d TP=%d FP=%d",
			len(r.PartialMatches), len(r.TruePositives), len(r.FalsePositives))
	}
	if !approx(r.FuzzyPrecision, 1.0) {
		t.Errorf("expected fuzzy precision 1.0, got %v", r.FuzzyPrecision)
	}
	// A partial match still counts against recall's denominator.
	if !approx(r.FuzzyRecall, 0.5) {
		t.Errorf("expected fuzzy recall 0.5, got %v", r.FuzzyRecall)
	}
	// Hallucination counts only predictions grounded in no gold pair.
	if !approx(r.HallucinationRate, 0.0) {
		t.Errorf("expected hallucination 0.0, got %v", r.HallucinationRate)
	}
	// Same endpoints, wrong type costs one relabel, not delete+insert.
	if !approx(r.GraphEditDistance, 1.0) {
		t.Errorf("expected GED=1, got %v", r.GraphEditDistance)
	}
}

func TestMetrics_PureHallucination(t *testing.T) {
	// gold=[], predicted=[(A,B,Association)]
	r := computeFor(t, []model.PredictedRelation{pred("A", "B", "Association")}, nil)

	if len(r.FalsePositives) != 1 {
		t.Fatalf("expected FP=1, got %d", len(r.FalsePositives))
	}
	if !approx(r.HallucinationRate, 1.0) {
		t.Errorf("expected hallucination 1.0, got %v", r.HallucinationRate)
	}
	// Guarded, not undefined.
	if !approx(r.ExactMatchRate, 0.0) || !approx(r.OmissionRate, 0.0) {
		t.Errorf("expected guarded zero rates, got exact=%v omission=%v", r.ExactMatchRate, r.OmissionRate)
	}
}

func TestMetrics_EmptyBothSides(t *testing.T) {
	r := computeFor(t, nil, nil)

	for name, v := range map[string]float64{
		"precision":     r.Precision,
		"recall":        r.Recall,
		"f1":            r.F1,
		"exact":         r.ExactMatchRate,
		"omission":      r.OmissionRate,
		"hallucination": r.HallucinationRate,
		"redundancy":    r.RedundancyRate,
		"ged":           r.GraphEditDistance,
		"fuzzy f1":      r.FuzzyF1,
	} {
		if math.IsNaN(v) {
			t.Errorf("%s is NaN for empty input", name)
		}
		if !approx(v, 0.0) {
			t.Errorf("%s = %v, want 0.0 for empty input", name, v)
		}
	}
}

func TestMetrics_RedundancyRate(t *testing.T) {
	r := computeFor(t,
		[]model.PredictedRelation{
			pred("A", "B", "Association"),
			pred("B", "A", "Association"), // same unordered pair and type
			pred("A", "C", "Association"),
			pred("A", "B", "Association"),
		},
		[]model.GoldRelation{goldRel("A", "B", "Association")},
	)

	if !approx(r.RedundancyRate, 0.5) {
		t.Errorf("expected redundancy 2/4, got %v", r.RedundancyRate)
	}
}

func TestMetrics_AllRatesBounded(t *testing.T) {
	r := computeFor(t,
		[]model.PredictedRelation{
			pred("A", "B", "Association"),
			pred("A", "C", "Negative_Correlation"),
			pred("X", "Y", "Association"),
		},
		[]model.GoldRelation{
			goldRel("A", "B", "Association"),
			goldRel("A", "C", "Association"),
			goldRel("B", "C", "Bind"),
		},
	)

	for name, v := range map[string]float64{
		"precision":       r.Precision,
		"recall":          r.Recall,
		"f1":              r.F1,
		"fuzzy precision": r.FuzzyPrecision,
		"fuzzy recall":    r.FuzzyRecall,
		"fuzzy f1":        r.FuzzyF1,
		"exact":           r.ExactMatchRate,
		"omission":        r.OmissionRate,
		"hallucination":   r.HallucinationRate,
		"redundancy":      r.RedundancyRate,
	} {
		if v < 0.0 || v > 1.0 {
			t.Errorf("%s = %v, want within [0, 1]", name, v)
		}
	}
	if r.GraphEditDistance < 0 {
		t.Errorf("GED must be non-negative, got %v", r.GraphEditDistance)
	}
}
