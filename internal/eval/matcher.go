package eval

import (
	"github.com/pmatysiak/relbench/internal/model"
)

// MatchResult is the classified comparison of one document's predicted
// relations against its gold relations.
//
// Invariants the metrics layer depends on:
//   - every gold relation is exactly one of true positive or false negative
//   - partial matches are a subset of false positives
//   - each partial match claims a distinct false-negative gold pair
type MatchResult struct {
	TruePositives  []model.RelationKey
	FalsePositives []model.RelationKey
	FalseNegatives []model.RelationKey
	PartialMatches []model.RelationKey

	GoldCount      int
	PredictedCount int
	RedundantCount int
}

// Matcher classifies resolved predicted relations against gold relations.
type Matcher struct{}

// NewMatcher creates a matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// goldKey normalizes a gold relation to its unordered-endpoint triple.
func goldKey(rel model.GoldRelation) model.RelationKey {
	return orderedKey(rel.HeadID, rel.TailID, rel.Type)
}

// predictedKey normalizes a predicted relation. Endpoints that failed
// resolution fall back to the raw mention text so the key stays readable
// in reports; such relations can never exact- or partial-match gold.
func predictedKey(rel model.PredictedRelation) model.RelationKey {
	head, tail := rel.HeadID, rel.TailID
	if head == "" {
		head = rel.HeadMention
	}
	if tail == "" {
		tail = rel.TailMention
	}
	return orderedKey(head, tail, rel.RelationType)
}

// orderedKey orders the endpoint pair lexicographically. Entity pairing is
// order-insensitive; the relation type is not.
func orderedKey(a, b, typ string) model.RelationKey {
	if b < a {
		a, b = b, a
	}
	return model.RelationKey{EntityA: a, EntityB: b, Type: typ}
}

func samePair(a, b model.RelationKey) bool {
	return a.EntityA == b.EntityA && a.EntityB == b.EntityB
}

// Match classifies predictions in three passes: exact matches consume gold
// triples greedily in input order, leftover gold becomes false negatives,
// and leftover predictions become false positives. A false positive whose
// endpoint pair equals an unclaimed gold pair with a different type is
// additionally recorded as a partial match; each gold pair can back at
// most one partial match.
func (m *Matcher) Match(predicted []model.PredictedRelation, gold []model.GoldRelation) MatchResult {
	res := MatchResult{
		GoldCount:      len(gold),
		PredictedCount: len(predicted),
	}

	goldKeys := make([]model.RelationKey, len(gold))
	for i, g := range gold {
		goldKeys[i] = goldKey(g)
	}
	consumed := make([]bool, len(gold))    // exact-matched
	pairClaimed := make([]bool, len(gold)) // claimed by a partial match

	type candidate struct {
		key      model.RelationKey
		resolved bool
		exact    bool
	}
	candidates := make([]candidate, len(predicted))
	seen := make(map[model.RelationKey]struct{}, len(predicted))
	for i, p := range predicted {
		candidates[i] = candidate{key: predictedKey(p), resolved: p.Resolved()}
		if _, dup := seen[candidates[i].key]; dup {
			res.RedundantCount++
		} else {
			seen[candidates[i].key] = struct{}{}
		}
	}

	// Pass 1: exact matches. No gold triple is matched twice.
	for i := range candidates {
		if !candidates[i].resolved {
			continue
		}
		for j := range goldKeys {
			if consumed[j] || goldKeys[j] != candidates[i].key {
				continue
			}
			consumed[j] = true
			candidates[i].exact = true
			res.TruePositives = append(res.TruePositives, candidates[i].key)
			break
		}
	}

	// Pass 2: every unconsumed gold triple is a false negative.
	for j := range goldKeys {
		if !consumed[j] {
			res.FalseNegatives = append(res.FalseNegatives, goldKeys[j])
		}
	}

	// Pass 3: unmatched predictions are false positives; those with the
	// right entity pair but the wrong type are also partial matches.
	// Relations with an unresolved endpoint are plain false positives.
	for i := range candidates {
		if candidates[i].exact {
			continue
		}
		res.FalsePositives = append(res.FalsePositives, candidates[i].key)
		if !candidates[i].resolved {
			continue
		}
		for j := range goldKeys {
			if consumed[j] || pairClaimed[j] {
				continue
			}
			if samePair(goldKeys[j], candidates[i].key) && goldKeys[j].Type != candidates[i].key.Type {
				pairClaimed[j] = true
				res.PartialMatches = append(res.PartialMatches, candidates[i].key)
				break
			}
		}
	}

	return res
}
