package prompt

import (
	"strings"
	"testing"

	"fintech-assistant-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
)

func TestBuildWithMatches(t *testing.T) {
	matches := []vectorindex.Match{
		{
			Text:       "Q: What are the transfer limits?\nA: $10,000 per day.",
			Metadata:   map[string]interface{}{"section": "Transfers"},
			Similarity: 0.92,
		},
		{
			Text:       "Q: Are there fees?\nA: No monthly fees.",
			Metadata:   map[string]interface{}{},
			Similarity: 0.71,
		},
	}

	got := NewGroundedBuilder(matches, "what are my limits?").Build()

	assert.Contains(t, got, `You are "Ellie,"`)
	assert.Contains(t, got, "**Do not** mention the context")
	assert.Contains(t, got, "Do not try to guess.")

	assert.Contains(t, got, "Context 1:\nSource: Transfers\nContent: Q: What are the transfer limits?\nA: $10,000 per day.")
	// Missing section falls back to Unknown
	assert.Contains(t, got, "Context 2:\nSource: Unknown\nContent: Q: Are there fees?")

	assert.True(t, strings.HasSuffix(got, "Question:\nwhat are my limits?\n"))

	// Passage order is preserved
	assert.Less(t,
		strings.Index(got, "Context 1:"),
		strings.Index(got, "Context 2:"),
	)
}

func TestBuildWithoutMatches(t *testing.T) {
	got := NewGroundedBuilder(nil, "what is the meaning of life?").Build()

	assert.Contains(t, got, "Context:\n\n")
	assert.NotContains(t, got, "Here is some context")
	assert.Contains(t, got, "Question:\nwhat is the meaning of life?\n")
}

func TestQuestionPassedVerbatim(t *testing.T) {
	query := "  spaces and <b>markup</b> stay as-is  "
	got := NewGroundedBuilder(nil, query).Build()
	assert.Contains(t, got, "Question:\n"+query+"\n")
}
