package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pmatysiak/relbench/internal/model"
)

var (
	jsonArrayPattern  = regexp.MustCompile(`\[[\s\S]*\]`)
	jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)
	arrowPattern      = regexp.MustCompile(`([^->:\n]+)\s*->\s*([^->:\n]+)\s*:\s*([^\n]+)`)
)

// Parser turns free-text model responses into structured prediction sets
// and resolves entity mentions against the registry.
type Parser struct {
	resolver *Resolver
}

// NewParser creates a parser. A nil resolver skips the resolution step,
// leaving all entity IDs empty.
func NewParser(resolver *Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// rawRelation mirrors the JSON output contract given to the model.
type rawRelation struct {
	HeadMention  string   `json:"head_mention"`
	TailMention  string   `json:"tail_mention"`
	RelationType string   `json:"relation_type"`
	Confidence   *float64 `json:"confidence"`
}

// Parse extracts candidate relations from a model response. It looks for
// an embedded JSON array (or a {"relations": [...]} object) first and
// falls back to "Head -> Tail: Type" line parsing. Records with an empty
// mention or type are dropped before they can reach the matcher.
func (p *Parser) Parse(response, docID string) model.PredictionSet {
	ps := model.PredictionSet{DocID: docID}

	raws, err := extractJSON(response)
	switch {
	case err == nil:
		for _, raw := range raws {
			rel := model.PredictedRelation{
				HeadMention:  strings.TrimSpace(raw.HeadMention),
				TailMention:  strings.TrimSpace(raw.TailMention),
				RelationType: strings.TrimSpace(raw.RelationType),
				Confidence:   raw.Confidence,
			}
			if rel.HeadMention == "" || rel.TailMention == "" || rel.RelationType == "" {
				continue
			}
			ps.Relations = append(ps.Relations, rel)
		}
	default:
		ps.ParsingErrors = append(ps.ParsingErrors, "no JSON found, attempting text parsing")
		ps.Relations = parseTextFormat(response)
	}

	if p.resolver != nil {
		p.resolver.ResolveSet(&ps)
	}
	return ps
}

// extractJSON finds the first parseable JSON relation list in the text.
func extractJSON(text string) ([]rawRelation, error) {
	var candidates []string
	if m := jsonArrayPattern.FindString(text); m != "" {
		candidates = append(candidates, m)
	}
	if m := jsonObjectPattern.FindString(text); m != "" {
		candidates = append(candidates, m)
	}
	candidates = append(candidates, text)

	for _, c := range candidates {
		var raws []rawRelation
		if err := json.Unmarshal([]byte(c), &raws); err == nil {
			return raws, nil
		}

		var wrapper struct {
			Relations []rawRelation `json:"relations"`
		}
		if err := json.Unmarshal([]byte(c), &wrapper); err == nil && wrapper.Relations != nil {
			return wrapper.Relations, nil
		}

		var single rawRelation
		if err := json.Unmarshal([]byte(c), &single); err == nil && single.HeadMention != "" {
			return []rawRelation{single}, nil
		}
	}
	return nil, errNoJSON
}

var errNoJSON = jsonError("no JSON relation list found in response")

type jsonError string

func (e jsonError) Error() string { return string(e) }

// parseTextFormat is the fallback for responses that ignore the JSON
// contract and answer with "Entity1 -> Entity2: RelationType" lines.
func parseTextFormat(text string) []model.PredictedRelation {
	var relations []model.PredictedRelation
	for _, m := range arrowPattern.FindAllStringSubmatch(text, -1) {
		rel := model.PredictedRelation{
			HeadMention:  strings.TrimSpace(m[1]),
			TailMention:  strings.TrimSpace(m[2]),
			RelationType: strings.TrimSpace(m[3]),
		}
		if rel.HeadMention == "" || rel.TailMention == "" || rel.RelationType == "" {
			continue
		}
		relations = append(relations, rel)
	}
	return relations
}
