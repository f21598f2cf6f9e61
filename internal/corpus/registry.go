package corpus

import (
	"strings"

	"github.com/pmatysiak/relbench/internal/model"
)

// maxMentionComparisons bounds how many common mentions a fuzzy lookup
// compares per candidate.
const maxMentionComparisons = 5

// GlobalEntity is the registry's single source-of-truth record for one
// canonical entity, accumulated across the whole gold corpus.
type GlobalEntity struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	CanonicalName  string   `json:"canonical_name"`
	CommonMentions []string `json:"common_mentions"`

	mentionSet map[string]struct{} // lowercased, for membership checks
}

// Registry maps canonical entity IDs to their types and known surface
// forms. It is built once per run from the gold corpus and read-only
// afterward, so concurrent lookups need no locking.
type Registry struct {
	entities map[string]*GlobalEntity
	order    []string // insertion order of IDs, for deterministic iteration
	minSim   float64
}

// NewRegistry creates an empty registry. minSimilarity is the lowest
// similarity ratio a fuzzy candidate may score and still be returned.
func NewRegistry(minSimilarity float64) *Registry {
	return &Registry{
		entities: make(map[string]*GlobalEntity),
		minSim:   minSimilarity,
	}
}

// Build folds every document's entity list into the registry. Entities are
// merged by ID: the first-seen type and canonical name win, mention sets
// grow by union. Safe to call once; later reads never mutate.
func (r *Registry) Build(docs []model.GoldDocument) {
	for _, doc := range docs {
		for _, ent := range doc.Entities {
			r.add(ent)
		}
	}
}

func (r *Registry) add(ent model.Entity) {
	ge, ok := r.entities[ent.ID]
	if !ok {
		ge = &GlobalEntity{
			ID:         ent.ID,
			Type:       ent.Type,
			mentionSet: make(map[string]struct{}),
		}
		r.entities[ent.ID] = ge
		r.order = append(r.order, ent.ID)
	}
	for _, m := range ent.Mentions {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		if ge.CanonicalName == "" {
			ge.CanonicalName = text
		}
		key := strings.ToLower(text)
		if _, seen := ge.mentionSet[key]; !seen {
			ge.mentionSet[key] = struct{}{}
			ge.CommonMentions = append(ge.CommonMentions, text)
		}
	}
}

// Len returns the number of distinct entities in the registry.
func (r *Registry) Len() int { return len(r.entities) }

// Get returns the entity with the given canonical ID.
func (r *Registry) Get(id string) (*GlobalEntity, bool) {
	ge, ok := r.entities[id]
	return ge, ok
}

// FindByMention looks up entities by surface form, optionally filtered by
// entity type (empty means any type). Exact mode matches the text
// case-insensitively against canonical names and common mentions. Fuzzy
// mode scores every candidate with Similarity and returns those at or
// above the registry's minimum, in first-seen order; picking the best is
// the caller's job.
func (r *Registry) FindByMention(text, entityType string, fuzzy bool) []*GlobalEntity {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var matches []*GlobalEntity
	lower := strings.ToLower(text)
	for _, id := range r.order {
		ge := r.entities[id]
		if entityType != "" && ge.Type != entityType {
			continue
		}
		if fuzzy {
			if Similarity(text, ge) >= r.minSim {
				matches = append(matches, ge)
			}
			continue
		}
		if strings.ToLower(ge.CanonicalName) == lower {
			matches = append(matches, ge)
			continue
		}
		if _, ok := ge.mentionSet[lower]; ok {
			matches = append(matches, ge)
		}
	}
	return matches
}

// Similarity returns the best normalized string-similarity ratio between a
// mention and an entity's canonical name or common mentions. Only the first
// few common mentions are compared to keep corpus-wide fuzzy lookups cheap.
func Similarity(mention string, ge *GlobalEntity) float64 {
	lower := strings.ToLower(strings.TrimSpace(mention))

	best := 0.0
	if ge.CanonicalName != "" {
		best = ratio(lower, strings.ToLower(ge.CanonicalName))
	}
	for i, cm := range ge.CommonMentions {
		if i >= maxMentionComparisons {
			break
		}
		if s := ratio(lower, strings.ToLower(cm)); s > best {
			best = s
		}
	}
	return best
}

// ratio is the Ratcliff/Obershelp similarity of two strings in [0, 1]:
// twice the number of matching characters over the total length, where
// matches are found by recursively splitting on the longest common
// substring.
func ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	m := matchingChars(a, b)
	return 2.0 * float64(m) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingChars(a[:ai], b[:bi])
	total += matchingChars(a[ai+size:], b[bi+size:])
	return total
}

func longestCommonSubstring(a, b string) (ai, bi, size int) {
	// lengths[j] tracks the run ending at a[i], b[j]
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		// Walk b backwards so lengths[j] still holds the previous row.
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				run := lengths[j] + 1
				lengths[j+1] = run
				if run > size {
					size = run
					ai = i - run + 1
					bi = j - run + 1
				}
			} else {
				lengths[j+1] = 0
			}
		}
	}
	return ai, bi, size
}
