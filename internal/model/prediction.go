package model

// PredictedRelation is a candidate relation extracted from a model response.
// HeadID and TailID are empty until the resolver fills them in, and stay
// empty when a mention cannot be resolved against the registry.
type PredictedRelation struct {
	HeadMention  string   `json:"head_mention"`
	TailMention  string   `json:"tail_mention"`
	RelationType string   `json:"relation_type"`
	Confidence   *float64 `json:"confidence,omitempty"`
	HeadID       string   `json:"head_id,omitempty"`
	TailID       string   `json:"tail_id,omitempty"`
}

// Resolved reports whether both endpoints carry a canonical entity ID.
func (r *PredictedRelation) Resolved() bool {
	return r.HeadID != "" && r.TailID != ""
}

// PredictionSet bundles one document's predicted relations with the
// errors collected while producing them. Parsing and resolution errors
// are informational and never block evaluation.
type PredictionSet struct {
	DocID                  string              `json:"doc_id"`
	Technique              string              `json:"technique,omitempty"`
	Relations              []PredictedRelation `json:"relations"`
	ParsingErrors          []string            `json:"parsing_errors,omitempty"`
	EntityResolutionErrors []string            `json:"entity_resolution_errors,omitempty"`
}
