package prompt

import (
	"fmt"
	"strings"

	"fintech-assistant-be/pkg/vectorindex"
)

// GroundedBuilder assembles the single prompt sent per turn: persona
// preamble, retrieved context block, and the verbatim user question.
type GroundedBuilder struct {
	matches []vectorindex.Match
	query   string
}

func NewGroundedBuilder(matches []vectorindex.Match, query string) *GroundedBuilder {
	return &GroundedBuilder{
		matches: matches,
		query:   query,
	}
}

func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writePersona(&prompt)
	b.writeContext(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

// writePersona carries the hallucination-avoidance contract: when the context
// is not relevant the model must say it lacks the information, not guess.
func (b *GroundedBuilder) writePersona(prompt *strings.Builder) {
	prompt.WriteString(`You are "Ellie," an expert AI assistant for a fintech company. Your persona is helpful, professional, and confident.

Use the following context to answer the user's question.

**Core Instructions:**
- Answer the user's question directly and concisely.
- **Do not** mention the context, the documents, or the information provided. Act as if you already know the information.
- Format your answers using Markdown for clarity (e.g. lists, bold text).
- If the context is not relevant, simply state that you don't have the information and cannot answer the question. Do not try to guess.

`)
}

func (b *GroundedBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("Context:\n")
	prompt.WriteString(b.formatContext())
	prompt.WriteString("\n")
}

// formatContext renders retrieved passages; with nothing retrieved the block
// stays empty and the persona instructions take over.
func (b *GroundedBuilder) formatContext() string {
	if len(b.matches) == 0 {
		return ""
	}

	var block strings.Builder
	block.WriteString("Here is some context that might be relevant to the user's question:\n\n")
	for i, match := range b.matches {
		source, _ := match.Metadata["section"].(string)
		if source == "" {
			source = "Unknown"
		}
		block.WriteString(fmt.Sprintf("Context %d:\n", i+1))
		block.WriteString(fmt.Sprintf("Source: %s\n", source))
		block.WriteString(fmt.Sprintf("Content: %s\n\n", match.Text))
	}

	return block.String()
}

func (b *GroundedBuilder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("Question:\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n")
}
