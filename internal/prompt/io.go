package prompt

import (
	"context"
	"strings"

	"github.com/pmatysiak/relbench/internal/model"
)

// IOPrompter is plain zero-shot prompting: one request, no reasoning
// scaffold, no external context.
type IOPrompter struct {
	completer Completer
}

// NewIOPrompter creates the zero-shot prompter.
func NewIOPrompter(completer Completer) *IOPrompter {
	return &IOPrompter{completer: completer}
}

func (p *IOPrompter) Name() string { return "IO" }

func (p *IOPrompter) Extract(ctx context.Context, doc model.GoldDocument) (string, error) {
	var b strings.Builder
	b.WriteString(basePrompt(doc))
	b.WriteString(`Extract all biomedical relations from the text above.

For each relation, identify:
1. Head entity (exact text span from the document)
2. Tail entity (exact text span from the document)
3. Relation type (e.g., Association, Positive_Correlation, Negative_Correlation)

`)
	b.WriteString(outputContract)
	return p.completer.Complete(ctx, systemPrompt, b.String())
}
