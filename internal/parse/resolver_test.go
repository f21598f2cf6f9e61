package parse

import (
	"testing"

	"github.com/pmatysiak/relbench/internal/corpus"
	"github.com/pmatysiak/relbench/internal/model"
)

func testRegistry(t *testing.T) *corpus.Registry {
	t.Helper()
	r := corpus.NewRegistry(0.75)
	r.Build([]model.GoldDocument{
		{
			DocID: "doc1",
			Entities: []model.Entity{
				{ID: "D001", Type: "DiseaseOrPhenotypicFeature", Mentions: []model.Mention{
					{Text: "Alzheimer disease"}, {Text: "AD"},
				}},
				{ID: "G001", Type: "GeneOrGeneProduct", Mentions: []model.Mention{
					{Text: "APOE"},
				}},
			},
		},
	})
	return r
}

func TestResolver_ResolveMention(t *testing.T) {
	r := NewResolver(testRegistry(t))

	tests := []struct {
		name    string
		mention string
		want    string
	}{
		{"exact canonical", "Alzheimer disease", "D001"},
		{"exact common mention", "AD", "D001"},
		{"case and whitespace", "  apoe  ", "G001"},
		{"fuzzy", "Alzheimers disease", "D001"},
		{"unresolvable", "parkinsonism", ""},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ResolveMention(tt.mention, ""); got != tt.want {
				t.Errorf("ResolveMention(%q) = %q, want %q", tt.mention, got, tt.want)
			}
		})
	}
}

func TestResolver_ResolveMention_Idempotent(t *testing.T) {
	r := NewResolver(testRegistry(t))

	first := r.ResolveMention("Alzheimers disease", "")
	second := r.ResolveMention("Alzheimers disease", "")
	if first != second {
		t.Errorf("resolution is not deterministic: %q vs %q", first, second)
	}
}

func TestResolver_NilIndex(t *testing.T) {
	r := NewResolver(nil)
	if got := r.ResolveMention("APOE", ""); got != "" {
		t.Errorf("expected no resolution without an index, got %q", got)
	}
}

func TestResolver_ResolveSet_SurvivesFailedEndpoint(t *testing.T) {
	r := NewResolver(testRegistry(t))
	ps := model.PredictionSet{
		DocID: "doc1",
		Relations: []model.PredictedRelation{
			{HeadMention: "APOE", TailMention: "unknown thing", RelationType: "Association"},
		},
	}

	r.ResolveSet(&ps)

	rel := ps.Relations[0]
	if rel.HeadID != "G001" {
		t.Errorf("expected head resolved to G001, got %q", rel.HeadID)
	}
	if rel.TailID != "" {
		t.Errorf("expected tail unresolved, got %q", rel.TailID)
	}
	if rel.Resolved() {
		t.Error("relation with one failed endpoint must not report as resolved")
	}
	if len(ps.EntityResolutionErrors) != 1 {
		t.Errorf("expected 1 resolution error, got %v", ps.EntityResolutionErrors)
	}
}
