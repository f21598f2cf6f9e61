package aggregate

import (
	"sort"

	"github.com/pmatysiak/relbench/internal/model"
)

// Compare ranks techniques by micro F1, highest first. Ties break on
// technique name so the ranking is stable across runs.
func Compare(aggregates []model.AggregateResults) model.ComparisonReport {
	report := model.ComparisonReport{RankedBy: "micro_f1"}

	entries := make([]model.ComparisonEntry, 0, len(aggregates))
	for _, agg := range aggregates {
		entries = append(entries, model.ComparisonEntry{
			Technique:            agg.TechniqueName,
			Documents:            agg.Documents,
			MicroF1:              agg.MicroF1,
			MacroF1:              agg.MacroF1,
			MicroPrecision:       agg.MicroPrecision,
			MicroRecall:          agg.MicroRecall,
			FuzzyMicroF1:         agg.FuzzyMicroF1,
			AvgHallucinationRate: agg.AvgHallucinationRate,
			AvgOmissionRate:      agg.AvgOmissionRate,
			AvgGraphEditDistance: agg.AvgGraphEditDistance,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].MicroF1 != entries[j].MicroF1 {
			return entries[i].MicroF1 > entries[j].MicroF1
		}
		return entries[i].Technique < entries[j].Technique
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	report.Entries = entries
	return report
}
