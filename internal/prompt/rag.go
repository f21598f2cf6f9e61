package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmatysiak/relbench/internal/model"
	"github.com/pmatysiak/relbench/internal/retrieval"
)

// queryLimit caps how much of the document seeds the retrieval query.
const queryLimit = 500

// snippetLimit caps how much of each retrieved passage enters the prompt.
const snippetLimit = 500

// RAGPrompter augments the document with the most similar passages from
// the retrieval store before asking for relations.
type RAGPrompter struct {
	completer Completer
	store     *retrieval.Store
	topK      int
}

// NewRAGPrompter creates the retrieval-augmented prompter.
func NewRAGPrompter(completer Completer, store *retrieval.Store, topK int) *RAGPrompter {
	return &RAGPrompter{completer: completer, store: store, topK: topK}
}

func (p *RAGPrompter) Name() string { return "RAG" }

func (p *RAGPrompter) Extract(ctx context.Context, doc model.GoldDocument) (string, error) {
	kbContext, err := p.retrieveContext(ctx, doc.Text())
	if err != nil {
		return "", fmt.Errorf("retrieving context: %w", err)
	}

	var b strings.Builder
	b.WriteString(basePrompt(doc))
	fmt.Fprintf(&b, "Relevant Context from Knowledge Base:\n%s\n---\n\n", kbContext)
	b.WriteString(`Now extract all biomedical relations from the text above. The context provided above may help you understand the entities and relations better, but you must extract entity mentions as EXACT text spans from the original document text (not from the context).

For each relation, identify:
1. Head entity (exact text span from the ORIGINAL document)
2. Tail entity (exact text span from the ORIGINAL document)
3. Relation type (e.g., Association, Positive_Correlation, Negative_Correlation)

`)
	b.WriteString(outputContract)
	return p.completer.Complete(ctx, systemPrompt, b.String())
}

func (p *RAGPrompter) retrieveContext(ctx context.Context, text string) (string, error) {
	query := text
	if len(query) > queryLimit {
		query = query[:queryLimit]
	}

	results, err := p.store.Search(ctx, query, p.topK)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No relevant context found.\n", nil
	}

	var b strings.Builder
	for i, r := range results {
		snippet := r.Document.Text
		if len(snippet) > snippetLimit {
			snippet = snippet[:snippetLimit] + "..."
		}
		fmt.Fprintf(&b, "[Context %d] (Similarity: %.3f)\n%s\n\n", i+1, r.Score, snippet)
	}
	return b.String(), nil
}
