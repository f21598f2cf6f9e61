package prompt

import (
	"fmt"

	"github.com/pmatysiak/relbench/internal/corpus"
	"github.com/pmatysiak/relbench/internal/retrieval"
)

// NewPrompters builds one prompter per requested technique name. Unknown
// names are an error so a config typo fails the run up front.
func NewPrompters(names []string, completer Completer, registry *corpus.Registry, store *retrieval.Store, topK int) ([]Prompter, error) {
	prompters := make([]Prompter, 0, len(names))
	for _, name := range names {
		switch name {
		case "IO":
			prompters = append(prompters, NewIOPrompter(completer))
		case "CoT":
			prompters = append(prompters, NewCoTPrompter(completer))
		case "RAG":
			if store == nil {
				return nil, fmt.Errorf("technique RAG requires a retrieval store")
			}
			prompters = append(prompters, NewRAGPrompter(completer, store, topK))
		case "ReAct":
			prompters = append(prompters, NewReActPrompter(completer, registry))
		default:
			return nil, fmt.Errorf("unknown prompting technique: %s", name)
		}
	}
	return prompters, nil
}
