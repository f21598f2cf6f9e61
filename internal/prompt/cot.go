package prompt

import (
	"context"
	"strings"

	"github.com/pmatysiak/relbench/internal/model"
)

// CoTPrompter asks the model to reason step by step before committing to
// its final relation list.
type CoTPrompter struct {
	completer Completer
}

// NewCoTPrompter creates the chain-of-thought prompter.
func NewCoTPrompter(completer Completer) *CoTPrompter {
	return &CoTPrompter{completer: completer}
}

func (p *CoTPrompter) Name() string { return "CoT" }

func (p *CoTPrompter) Extract(ctx context.Context, doc model.GoldDocument) (string, error) {
	var b strings.Builder
	b.WriteString(basePrompt(doc))
	b.WriteString(`Extract all biomedical relations from the text above. Think step by step:

Step 1: Identify all biomedical entities mentioned in the text (genes, diseases, chemicals, variants) and note their exact text spans.
Step 2: For each pair of entities, decide whether the text states or implies a relation between them.
Step 3: For each related pair, determine the relation type (e.g., Association, Positive_Correlation, Negative_Correlation).

Write out your reasoning for each step, then provide your final answer.

`)
	b.WriteString(outputContract)
	return p.completer.Complete(ctx, systemPrompt, b.String())
}
