package model

// RelationKey identifies a relation by its unordered endpoint pair and type.
// EntityA and EntityB are ordered lexicographically so that the same pair
// always produces the same key regardless of head/tail order. For predicted
// relations with an unresolved endpoint the slot holds the raw mention text,
// which keeps the key readable in reports.
type RelationKey struct {
	EntityA string `json:"entity_a"`
	EntityB string `json:"entity_b"`
	Type    string `json:"type"`
}

// EvaluationResult holds the classification and derived metrics for one
// document under one technique. Created once by the evaluator, immutable
// afterward.
type EvaluationResult struct {
	DocID string `json:"doc_id"`

	TruePositives  []RelationKey `json:"true_positives"`
	FalsePositives []RelationKey `json:"false_positives"`
	FalseNegatives []RelationKey `json:"false_negatives"`
	PartialMatches []RelationKey `json:"partial_matches"`

	GoldCount      int `json:"gold_count"`
	PredictedCount int `json:"predicted_count"`

	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`

	ExactMatchRate    float64 `json:"exact_match_rate"`
	OmissionRate      float64 `json:"omission_rate"`
	HallucinationRate float64 `json:"hallucination_rate"`
	RedundancyRate    float64 `json:"redundancy_rate"`
	GraphEditDistance float64 `json:"graph_edit_distance"`

	FuzzyPrecision float64 `json:"fuzzy_precision"`
	FuzzyRecall    float64 `json:"fuzzy_recall"`
	FuzzyF1        float64 `json:"fuzzy_f1"`
}

// AggregateResults holds a technique's metrics reduced across documents.
// Owned by the aggregator; the comparator reads it and never writes.
type AggregateResults struct {
	TechniqueName string `json:"technique_name"`
	Documents     int    `json:"documents"`

	// Macro: arithmetic mean of per-document metrics (equal weight per doc).
	MacroPrecision float64 `json:"macro_precision"`
	MacroRecall    float64 `json:"macro_recall"`
	MacroF1        float64 `json:"macro_f1"`

	// Micro: recomputed from confusion counts summed across documents.
	MicroPrecision float64 `json:"micro_precision"`
	MicroRecall    float64 `json:"micro_recall"`
	MicroF1        float64 `json:"micro_f1"`

	TotalTruePositives  int `json:"total_true_positives"`
	TotalFalsePositives int `json:"total_false_positives"`
	TotalFalseNegatives int `json:"total_false_negatives"`
	TotalPartialMatches int `json:"total_partial_matches"`

	AvgExactMatchRate    float64 `json:"avg_exact_match_rate"`
	AvgOmissionRate      float64 `json:"avg_omission_rate"`
	AvgHallucinationRate float64 `json:"avg_hallucination_rate"`
	AvgRedundancyRate    float64 `json:"avg_redundancy_rate"`
	AvgGraphEditDistance float64 `json:"avg_graph_edit_distance"`
	AvgPartialMatches    float64 `json:"avg_partial_matches"`

	FuzzyMacroPrecision float64 `json:"fuzzy_macro_precision"`
	FuzzyMacroRecall    float64 `json:"fuzzy_macro_recall"`
	FuzzyMacroF1        float64 `json:"fuzzy_macro_f1"`
	FuzzyMicroPrecision float64 `json:"fuzzy_micro_precision"`
	FuzzyMicroRecall    float64 `json:"fuzzy_micro_recall"`
	FuzzyMicroF1        float64 `json:"fuzzy_micro_f1"`

	StdDevF1 float64 `json:"stddev_f1"`

	PerDocument []EvaluationResult `json:"per_document,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// ComparisonEntry is one technique's row in the ranked comparison table.
type ComparisonEntry struct {
	Rank                 int     `json:"rank"`
	Technique            string  `json:"technique"`
	Documents            int     `json:"documents"`
	MicroF1              float64 `json:"micro_f1"`
	MacroF1              float64 `json:"macro_f1"`
	MicroPrecision       float64 `json:"micro_precision"`
	MicroRecall          float64 `json:"micro_recall"`
	FuzzyMicroF1         float64 `json:"fuzzy_micro_f1"`
	AvgHallucinationRate float64 `json:"avg_hallucination_rate"`
	AvgOmissionRate      float64 `json:"avg_omission_rate"`
	AvgGraphEditDistance float64 `json:"avg_graph_edit_distance"`
}

// ComparisonReport ranks all evaluated techniques by the chosen statistic.
type ComparisonReport struct {
	RankedBy string            `json:"ranked_by"`
	Entries  []ComparisonEntry `json:"entries"`
}
