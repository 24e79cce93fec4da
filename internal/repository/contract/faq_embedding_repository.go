package contract

import (
	"context"

	"fintech-assistant-be/internal/entity"
)

// ScoredFaqEmbedding wraps FaqEmbedding with its similarity score
type ScoredFaqEmbedding struct {
	Embedding  *entity.FaqEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type FaqEmbeddingRepository interface {
	// EnsureSchema creates the pgvector extension and the embeddings table when
	// missing. Safe to call on every process start.
	EnsureSchema(ctx context.Context) error
	// UpsertBulk writes records keyed by their content-addressed id; existing
	// ids are replaced, never duplicated. One call is one unit of work.
	UpsertBulk(ctx context.Context, embeddings []*entity.FaqEmbedding) error
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredFaqEmbedding, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
