package retrieval

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Embedder turns text into a dense vector. Satisfied by llm.Client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Document is one retrievable passage with its embedding.
type Document struct {
	ID     string
	Text   string
	Vector []float64
}

// Scored pairs a document with its similarity to a query.
type Scored struct {
	Document Document
	Score    float64
}

// Store is an in-memory vector index over supporting passages. Small
// corpora only: search is a linear scan.
type Store struct {
	embedder Embedder
	docs     []Document
}

// NewStore creates an empty store backed by the given embedder.
func NewStore(embedder Embedder) *Store {
	return &Store{embedder: embedder}
}

// Len reports how many documents are indexed.
func (s *Store) Len() int {
	return len(s.docs)
}

// Add embeds and indexes one passage.
func (s *Store) Add(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding %s: %w", id, err)
	}
	s.docs = append(s.docs, Document{ID: id, Text: text, Vector: vec})
	return nil
}

// AddFromDir indexes every .txt file under dir, one document per file,
// keyed by the file name without extension.
func (s *Store) AddFromDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading source dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		id := strings.TrimSuffix(name, ".txt")
		if err := s.Add(ctx, id, string(data)); err != nil {
			return err
		}
	}
	return nil
}

// Search returns the topK most similar documents by cosine similarity,
// best first. Fewer are returned when the index is smaller than topK.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]Scored, error) {
	if topK <= 0 || len(s.docs) == 0 {
		return nil, nil
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	scored := make([]Scored, 0, len(s.docs))
	for _, doc := range s.docs {
		scored = append(scored, Scored{Document: doc, Score: cosine(qvec, doc.Vector)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0.0
	}
	dot := floats.Dot(a, b)
	if math.IsNaN(dot) {
		return 0.0
	}
	return dot / (na * nb)
}
