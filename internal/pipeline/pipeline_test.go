package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pmatysiak/relbench/internal/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// storedFixture lays out a two-document gold corpus and captured responses
// for two techniques.
func storedFixture(t *testing.T) *model.Config {
	t.Helper()
	root := t.TempDir()
	goldDir := filepath.Join(root, "gold")
	responsesDir := filepath.Join(root, "responses")

	writeFile(t, filepath.Join(goldDir, "doc1.json"), `{
		"doc_id": "doc1",
		"title": "Aspirin and headache",
		"body": "Aspirin relieves headache.",
		"entities": [
			{"id": "C001", "type": "Chemical", "mentions": [{"text": "aspirin"}]},
			{"id": "D001", "type": "Disease", "mentions": [{"text": "headache"}]}
		],
		"relations": [
			{"head_id": "C001", "tail_id": "D001", "type": "Negative_Correlation"}
		]
	}`)
	writeFile(t, filepath.Join(goldDir, "doc2.json"), `{
		"doc_id": "doc2",
		"title": "BRCA1",
		"body": "BRCA1 mutations cause breast cancer.",
		"entities": [
			{"id": "G001", "type": "Gene", "mentions": [{"text": "BRCA1"}]},
			{"id": "D002", "type": "Disease", "mentions": [{"text": "breast cancer"}]}
		],
		"relations": [
			{"head_id": "G001", "tail_id": "D002", "type": "Positive_Correlation"}
		]
	}`)

	// IO answers both documents correctly; CoT only the first, and its
	// doc2 response is missing entirely.
	writeFile(t, filepath.Join(responsesDir, "IO", "doc1.txt"),
		`[{"head_mention": "aspirin", "tail_mention": "headache", "relation_type": "Negative_Correlation"}]`)
	writeFile(t, filepath.Join(responsesDir, "IO", "doc2.txt"),
		`[{"head_mention": "BRCA1", "tail_mention": "breast cancer", "relation_type": "Positive_Correlation"}]`)
	writeFile(t, filepath.Join(responsesDir, "CoT", "doc1.txt"),
		`[{"head_mention": "aspirin", "tail_mention": "headache", "relation_type": "Negative_Correlation"}]`)

	cfg := model.DefaultConfig()
	cfg.Corpus.GoldDir = goldDir
	cfg.Output.Dir = filepath.Join(root, "results")
	cfg.Cache.Dir = filepath.Join(root, "cache")
	cfg.Resolution.MinSimilarity = 0.75
	cfg.Concurrency.Workers = 2
	cfg.API.Timeout = time.Second
	return cfg
}

func TestEvaluateStored(t *testing.T) {
	cfg := storedFixture(t)
	responsesDir := filepath.Join(filepath.Dir(cfg.Corpus.GoldDir), "responses")

	report, err := New(cfg).EvaluateStored(responsesDir)
	if err != nil {
		t.Fatalf("EvaluateStored: %v", err)
	}

	if len(report.Entries) != 2 {
		t.Fatalf("got %d comparison entries, want 2", len(report.Entries))
	}
	// IO scored both documents, CoT only one; IO must rank first.
	if report.Entries[0].Technique != "IO" {
		t.Errorf("top technique = %s, want IO", report.Entries[0].Technique)
	}
	if report.Entries[0].MicroF1 != 1.0 {
		t.Errorf("IO micro F1 = %v, want 1.0", report.Entries[0].MicroF1)
	}
	cot := report.Entries[1]
	if cot.Technique != "CoT" {
		t.Fatalf("second technique = %s, want CoT", cot.Technique)
	}
	// CoT: doc1 perfect, doc2 missing response counts as total omission.
	if cot.MicroRecall != 0.5 {
		t.Errorf("CoT micro recall = %v, want 0.5", cot.MicroRecall)
	}

	// Both per-technique files and the comparison land in the output dir.
	for _, name := range []string{"IO_results.json", "CoT_results.json", "comparison.json"} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, name)); err != nil {
			t.Errorf("missing output file %s: %v", name, err)
		}
	}
}

func TestEvaluateStoredMissingDir(t *testing.T) {
	cfg := storedFixture(t)
	if _, err := New(cfg).EvaluateStored(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing responses dir")
	}
}

func TestRunFailsWithoutCorpus(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Corpus.GoldDir = filepath.Join(t.TempDir(), "absent")
	cfg.API.APIKey = "test-key"

	if _, err := New(cfg).EvaluateStored(t.TempDir()); err == nil {
		t.Error("expected error for missing gold corpus")
	}
}
