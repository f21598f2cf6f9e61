package parse

import (
	"fmt"
	"strings"

	"github.com/pmatysiak/relbench/internal/corpus"
	"github.com/pmatysiak/relbench/internal/model"
)

// EntityIndex is the registry capability the resolver needs.
type EntityIndex interface {
	FindByMention(text, entityType string, fuzzy bool) []*corpus.GlobalEntity
}

// emptyIndex is the null-object index used when no registry is available;
// every lookup misses, so every mention stays unresolved.
type emptyIndex struct{}

func (emptyIndex) FindByMention(string, string, bool) []*corpus.GlobalEntity { return nil }

// Resolver maps raw mention strings to canonical entity IDs against a
// corpus-wide registry: exact lookup first, fuzzy second.
type Resolver struct {
	index EntityIndex
}

// NewResolver creates a resolver over the given index. A nil index is
// allowed and resolves nothing.
func NewResolver(index EntityIndex) *Resolver {
	if index == nil {
		index = emptyIndex{}
	}
	return &Resolver{index: index}
}

// ResolveMention resolves a mention to a canonical entity ID, or returns
// the empty string when no entity matches. entityType optionally narrows
// the candidate set. Ties between equally similar fuzzy candidates break
// by first-seen registry order.
func (r *Resolver) ResolveMention(text, entityType string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if matches := r.index.FindByMention(text, entityType, false); len(matches) > 0 {
		return matches[0].ID
	}

	matches := r.index.FindByMention(text, entityType, true)
	if len(matches) == 0 {
		return ""
	}
	best := matches[0]
	bestScore := corpus.Similarity(text, best)
	for _, ge := range matches[1:] {
		if s := corpus.Similarity(text, ge); s > bestScore {
			best, bestScore = ge, s
		}
	}
	return best.ID
}

// ResolveRelation resolves a relation's head and tail independently; a
// failed endpoint leaves an empty ID without affecting the other side.
func (r *Resolver) ResolveRelation(rel *model.PredictedRelation) {
	rel.HeadID = r.ResolveMention(rel.HeadMention, "")
	rel.TailID = r.ResolveMention(rel.TailMention, "")
}

// ResolveSet resolves every relation in a prediction set, recording a
// resolution error per unresolved endpoint. Unresolved mentions are data,
// not failures: the relation survives with an empty ID on that side.
func (r *Resolver) ResolveSet(ps *model.PredictionSet) {
	for i := range ps.Relations {
		rel := &ps.Relations[i]
		r.ResolveRelation(rel)
		if rel.HeadID == "" {
			ps.EntityResolutionErrors = append(ps.EntityResolutionErrors,
				fmt.Sprintf("could not resolve head entity: %s", rel.HeadMention))
		}
		if rel.TailID == "" {
			ps.EntityResolutionErrors = append(ps.EntityResolutionErrors,
				fmt.Sprintf("could not resolve tail entity: %s", rel.TailMention))
		}
	}
}
