package aggregate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmatysiak/relbench/internal/model"
)

func keys(prefix string, n int) []model.RelationKey {
	out := make([]model.RelationKey, n)
	for i := range out {
		out[i] = model.RelationKey{
			EntityA: fmt.Sprintf("%s-a%d", prefix, i),
			EntityB: fmt.Sprintf("%s-b%d", prefix, i),
			Type:    "Association",
		}
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateEmpty(t *testing.T) {
	agg := NewAggregator(false).Aggregate(nil, "CoT")
	if agg.TechniqueName != "CoT" {
		t.Errorf("technique name = %q, want CoT", agg.TechniqueName)
	}
	if agg.Documents != 0 || agg.MicroF1 != 0 || agg.MacroF1 != 0 {
		t.Errorf("empty input should produce zeroed record, got %+v", agg)
	}
}

func TestMacroMicroDivergence(t *testing.T) {
	// Small document scored perfectly, large document scored poorly.
	// Macro weighs them equally; micro weighs by relation count.
	results := []model.EvaluationResult{
		{
			DocID:         "small",
			TruePositives: keys("s", 1),
			GoldCount:     1, PredictedCount: 1,
			Precision: 1.0, Recall: 1.0, F1: 1.0,
		},
		{
			DocID:          "large",
			TruePositives:  keys("l", 1),
			FalseNegatives: keys("lfn", 9),
			GoldCount:      10, PredictedCount: 1,
			Precision: 1.0, Recall: 0.1, F1: 2 * 1.0 * 0.1 / 1.1,
		},
	}

	agg := NewAggregator(false).Aggregate(results, "IO")

	if !approx(agg.MacroRecall, 0.55) {
		t.Errorf("macro recall = %v, want 0.55", agg.MacroRecall)
	}
	if !approx(agg.MicroRecall, 2.0/11.0) {
		t.Errorf("micro recall = %v, want %v", agg.MicroRecall, 2.0/11.0)
	}
	if approx(agg.MacroRecall, agg.MicroRecall) {
		t.Error("macro and micro recall should diverge on skewed document sizes")
	}
	if agg.TotalTruePositives != 2 || agg.TotalFalseNegatives != 9 {
		t.Errorf("totals TP=%d FN=%d, want 2 and 9",
			agg.TotalTruePositives, agg.TotalFalseNegatives)
	}
}

func TestFuzzyMicroPromotesPartials(t *testing.T) {
	results := []model.EvaluationResult{
		{
			DocID:          "d1",
			TruePositives:  keys("tp", 2),
			FalsePositives: keys("fp", 3),
			FalseNegatives: keys("fn", 2),
			PartialMatches: keys("pm", 2),
			GoldCount:      4, PredictedCount: 5,
		},
	}

	agg := NewAggregator(false).Aggregate(results, "RAG")

	// fuzzy TP = 2+2 = 4, fuzzy FP = 3-2 = 1, FN = 2
	wantP := 4.0 / 5.0
	wantR := 4.0 / 6.0
	wantF1 := 2 * wantP * wantR / (wantP + wantR)
	if !approx(agg.FuzzyMicroPrecision, wantP) {
		t.Errorf("fuzzy micro precision = %v, want %v", agg.FuzzyMicroPrecision, wantP)
	}
	if !approx(agg.FuzzyMicroRecall, wantR) {
		t.Errorf("fuzzy micro recall = %v, want %v", agg.FuzzyMicroRecall, wantR)
	}
	if !approx(agg.FuzzyMicroF1, wantF1) {
		t.Errorf("fuzzy micro F1 = %v, want harmonic mean %v", agg.FuzzyMicroF1, wantF1)
	}
}

func TestStdDevAndAverages(t *testing.T) {
	results := []model.EvaluationResult{
		{DocID: "a", F1: 1.0, OmissionRate: 0.0, HallucinationRate: 0.2, GraphEditDistance: 1},
		{DocID: "b", F1: 0.5, OmissionRate: 0.4, HallucinationRate: 0.0, GraphEditDistance: 3},
	}

	agg := NewAggregator(false).Aggregate(results, "ReAct")

	if !approx(agg.MacroF1, 0.75) {
		t.Errorf("macro F1 = %v, want 0.75", agg.MacroF1)
	}
	// Sample standard deviation of {1.0, 0.5}.
	if !approx(agg.StdDevF1, math.Sqrt(0.125)) {
		t.Errorf("stddev F1 = %v, want %v", agg.StdDevF1, math.Sqrt(0.125))
	}
	if !approx(agg.AvgOmissionRate, 0.2) || !approx(agg.AvgHallucinationRate, 0.1) {
		t.Errorf("avg rates omission=%v hallucination=%v",
			agg.AvgOmissionRate, agg.AvgHallucinationRate)
	}
	if !approx(agg.AvgGraphEditDistance, 2.0) {
		t.Errorf("avg GED = %v, want 2.0", agg.AvgGraphEditDistance)
	}
}

func TestPerDocumentRetention(t *testing.T) {
	results := []model.EvaluationResult{{DocID: "d1"}, {DocID: "d2"}}

	with := NewAggregator(true).Aggregate(results, "IO")
	if len(with.PerDocument) != 2 {
		t.Errorf("expected per-document results retained, got %d", len(with.PerDocument))
	}
	without := NewAggregator(false).Aggregate(results, "IO")
	if without.PerDocument != nil {
		t.Error("expected per-document results dropped")
	}
}

func TestCompareRanking(t *testing.T) {
	aggs := []model.AggregateResults{
		{TechniqueName: "IO", MicroF1: 0.4},
		{TechniqueName: "ReAct", MicroF1: 0.6},
		{TechniqueName: "CoT", MicroF1: 0.6},
		{TechniqueName: "RAG", MicroF1: 0.5},
	}

	report := Compare(aggs)

	if report.RankedBy != "micro_f1" {
		t.Errorf("ranked by %q, want micro_f1", report.RankedBy)
	}
	got := make([]string, len(report.Entries))
	for i, e := range report.Entries {
		got[i] = e.Technique
		if e.Rank != i+1 {
			t.Errorf("entry %d has rank %d", i, e.Rank)
		}
	}
	want := []string{"CoT", "ReAct", "RAG", "IO"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking = %v, want %v", got, want)
		}
	}
}

func TestSaveAndRender(t *testing.T) {
	dir := t.TempDir()

	agg := model.AggregateResults{TechniqueName: "CoT", Documents: 3, MicroF1: 0.5}
	path, err := SaveTechniqueResults(dir, agg)
	if err != nil {
		t.Fatalf("SaveTechniqueResults: %v", err)
	}
	if filepath.Base(path) != "CoT_results.json" {
		t.Errorf("unexpected file name %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved results: %v", err)
	}
	var back model.AggregateResults
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("decoding saved results: %v", err)
	}
	if back.TechniqueName != "CoT" || back.Documents != 3 {
		t.Errorf("round-trip mismatch: %+v", back)
	}

	report := Compare([]model.AggregateResults{agg})
	if _, err := SaveReport(dir, report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	var buf bytes.Buffer
	RenderTable(&buf, report)
	out := buf.String()
	if !strings.Contains(out, "CoT") || !strings.Contains(out, "TECHNIQUE") {
		t.Errorf("rendered table missing expected content:\n%s", out)
	}
}
