package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmatysiak/relbench/internal/model"
)

const systemPrompt = "You are a biomedical relation extraction assistant. " +
	"You identify relations between entities such as genes, diseases and chemicals " +
	"and report them exactly as instructed."

// Prompter is one prompting technique. Extract sends the document to the
// model and returns the raw response text; parsing happens downstream.
type Prompter interface {
	Name() string
	Extract(ctx context.Context, doc model.GoldDocument) (string, error)
}

// Completer is the slice of the model client the prompters need.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// basePrompt carries the instructions every technique shares: the document
// header, the exact-span rule and the text itself.
func basePrompt(doc model.GoldDocument) string {
	var b strings.Builder
	b.WriteString("Extract biomedical relations from the following text.\n\n")
	if doc.DocID != "" {
		fmt.Fprintf(&b, "Document ID: %s\n\n", doc.DocID)
	}
	b.WriteString("IMPORTANT: When extracting entities, use the EXACT text spans from the document.\n")
	b.WriteString("Do not paraphrase or modify the entity mentions. Copy them exactly as they appear in the text.\n\n")
	fmt.Fprintf(&b, "Text:\n%s\n\n", doc.Text())
	return b.String()
}

// outputContract is the JSON shape every technique asks for.
const outputContract = `Return the results as a JSON array with the following format:
[
  {
    "head_mention": "exact text from document",
    "tail_mention": "exact text from document",
    "relation_type": "Association"
  }
]

IMPORTANT: Use EXACT text spans from the document for entity mentions. Do not paraphrase or modify the text.
`
