package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmatysiak/relbench/internal/model"
)

// Loader reads per-document gold graph files (one JSON file per document,
// named <doc_id>.json) from a corpus directory.
type Loader struct {
	goldDir string
}

// NewLoader creates a loader for the given gold corpus directory.
func NewLoader(goldDir string) *Loader {
	return &Loader{goldDir: goldDir}
}

// Load reads every gold document in the directory, sorted by file name so
// the corpus order is stable across runs. Relations whose endpoints are not
// in the document's entity list are dropped with the document kept.
func (l *Loader) Load() ([]model.GoldDocument, error) {
	entries, err := os.ReadDir(l.goldDir)
	if err != nil {
		return nil, fmt.Errorf("read gold dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]model.GoldDocument, 0, len(names))
	for _, name := range names {
		path := filepath.Join(l.goldDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var doc model.GoldDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if doc.DocID == "" {
			doc.DocID = strings.TrimSuffix(name, ".json")
		}
		doc.Relations = keepLinkedRelations(doc)
		docs = append(docs, doc)
	}
	return docs, nil
}

// keepLinkedRelations enforces the corpus invariant that both endpoints of
// a kept relation appear in the document's entity list.
func keepLinkedRelations(doc model.GoldDocument) []model.GoldRelation {
	ids := make(map[string]struct{}, len(doc.Entities))
	for _, e := range doc.Entities {
		ids[e.ID] = struct{}{}
	}

	kept := doc.Relations[:0]
	for _, rel := range doc.Relations {
		if _, ok := ids[rel.HeadID]; !ok {
			continue
		}
		if _, ok := ids[rel.TailID]; !ok {
			continue
		}
		kept = append(kept, rel)
	}
	return kept
}
