package rag

import (
	"context"
	"strings"

	"fintech-assistant-be/internal/pkg/logger"
	"fintech-assistant-be/pkg/llm"
	"fintech-assistant-be/pkg/rag/prompt"
	"fintech-assistant-be/pkg/vectorindex"
)

// FallbackResponse is returned whenever retrieval or generation fails. It is
// a valid conversational turn, so the chat continues instead of erroring.
const FallbackResponse = "I'm having trouble generating a response right now. Please try again."

// DefaultTopK bounds how many passages ground a single answer.
const DefaultTopK = 3

// Retriever is the slice of the vector index the orchestrator needs.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]vectorindex.Match, error)
}

// Orchestrator runs one best-effort retrieve-then-generate pass per user
// message. No retries, no streaming: retrieval must complete before the
// prompt can be built, and failures degrade to FallbackResponse.
type Orchestrator struct {
	retriever Retriever
	provider  llm.Provider
	logger    logger.ILogger
	topK      int
}

func NewOrchestrator(retriever Retriever, provider llm.Provider, log logger.ILogger, topK int) *Orchestrator {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Orchestrator{
		retriever: retriever,
		provider:  provider,
		logger:    log,
		topK:      topK,
	}
}

// Answer resolves a user message into a grounded reply. It never returns an
// error and never surfaces internals: any failure yields FallbackResponse.
func (o *Orchestrator) Answer(ctx context.Context, userMessage string) string {
	matches, err := o.retriever.Search(ctx, userMessage, o.topK)
	if err != nil {
		o.logger.Error("rag", "retrieval failed, degrading to fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return FallbackResponse
	}

	o.logger.Debug("rag", "retrieved context passages", map[string]interface{}{
		"count": len(matches),
	})

	assembled := prompt.NewGroundedBuilder(matches, userMessage).Build()

	response, err := o.provider.Generate(ctx, assembled)
	if err != nil {
		o.logger.Error("rag", "generation failed, degrading to fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return FallbackResponse
	}
	if strings.TrimSpace(response) == "" {
		o.logger.Warn("rag", "model returned empty response, degrading to fallback", nil)
		return FallbackResponse
	}

	return response
}
