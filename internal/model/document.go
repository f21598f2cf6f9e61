package model

// Mention is one surface form of an entity as written in a document
type Mention struct {
	Text          string `json:"text"`
	PassageIndex  int    `json:"passage_index,omitempty"`
	PassageOffset int    `json:"passage_offset,omitempty"`
	CharOffset    int    `json:"char_offset,omitempty"`
	Length        int    `json:"length,omitempty"`
}

// Entity is a canonical entity as annotated in a single gold document.
// The same ID appearing in two documents refers to the same real-world entity.
type Entity struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Mentions []Mention `json:"mentions"`
}

// GoldRelation is a curated relation between two canonical entities.
// Both endpoint IDs must appear in the owning document's entity list.
type GoldRelation struct {
	ID     string `json:"id,omitempty"`
	HeadID string `json:"head_id"`
	TailID string `json:"tail_id"`
	Type   string `json:"type"`
	Novel  string `json:"novel,omitempty"` // "Novel" or "No"
}

// GoldDocument is one document's gold entity graph and relation set,
// as exported per-document from a BioC corpus
type GoldDocument struct {
	DocID     string         `json:"doc_id"`
	Title     string         `json:"title,omitempty"`
	Body      string         `json:"body,omitempty"`
	Entities  []Entity       `json:"entities"`
	Relations []GoldRelation `json:"relations"`
}

// Text returns the prompt-ready document text (title followed by body).
func (d *GoldDocument) Text() string {
	if d.Title == "" {
		return d.Body
	}
	if d.Body == "" {
		return d.Title
	}
	return d.Title + "\n\n" + d.Body
}
