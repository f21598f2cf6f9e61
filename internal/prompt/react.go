package prompt

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pmatysiak/relbench/internal/corpus"
	"github.com/pmatysiak/relbench/internal/model"
)

// maxReActSteps bounds the thought/action loop so a model that never
// produces a final answer cannot spin forever.
const maxReActSteps = 5

var lookupActionPattern = regexp.MustCompile(`(?i)Action:\s*LOOKUP_ENTITY\[([^\]]+)\]`)

// ReActPrompter interleaves model reasoning with a registry lookup tool.
// Each turn the model may either look up an entity or give its final
// relation list; observations are appended to the transcript and the
// model is called again.
type ReActPrompter struct {
	completer Completer
	registry  *corpus.Registry
}

// NewReActPrompter creates the reason-and-act prompter.
func NewReActPrompter(completer Completer, registry *corpus.Registry) *ReActPrompter {
	return &ReActPrompter{completer: completer, registry: registry}
}

func (p *ReActPrompter) Name() string { return "ReAct" }

func (p *ReActPrompter) Extract(ctx context.Context, doc model.GoldDocument) (string, error) {
	var transcript strings.Builder
	transcript.WriteString(basePrompt(doc))
	transcript.WriteString(`Extract all biomedical relations from the text above using a reasoning and action approach.

Use the following format:
Thought: [your reasoning about what to do next]
Action: LOOKUP_ENTITY[entity name]

After each action you will receive an Observation with what is known about that entity. When you have identified all relations, respond with:
Final Answer: followed by your result.

`)
	transcript.WriteString(outputContract)

	var last string
	for step := 0; step < maxReActSteps; step++ {
		response, err := p.completer.Complete(ctx, systemPrompt, transcript.String())
		if err != nil {
			return "", err
		}
		last = response

		match := lookupActionPattern.FindStringSubmatch(response)
		if match == nil || strings.Contains(response, "Final Answer") {
			return response, nil
		}

		observation := p.lookup(match[1])
		transcript.WriteString(response)
		fmt.Fprintf(&transcript, "\nObservation: %s\n", observation)
	}
	return last, nil
}

// lookup answers a LOOKUP_ENTITY action from the registry.
func (p *ReActPrompter) lookup(name string) string {
	name = strings.TrimSpace(name)
	if p.registry == nil {
		return "no entity registry available"
	}

	candidates := p.registry.FindByMention(name, "", false)
	if len(candidates) == 0 {
		candidates = p.registry.FindByMention(name, "", true)
	}
	if len(candidates) == 0 {
		return fmt.Sprintf("no known entity matches %q", name)
	}

	ge := candidates[0]
	if len(ge.CommonMentions) > 0 {
		return fmt.Sprintf("%q is a known %s entity (canonical name %q, also mentioned as: %s)",
			name, ge.Type, ge.CanonicalName, strings.Join(ge.CommonMentions, ", "))
	}
	return fmt.Sprintf("%q is a known %s entity (canonical name %q)", name, ge.Type, ge.CanonicalName)
}
