package implementation

import (
	"context"

	"fintech-assistant-be/internal/entity"
	"fintech-assistant-be/internal/mapper"
	"fintech-assistant-be/internal/model"
	"fintech-assistant-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FaqEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FaqEmbeddingMapper
}

func NewFaqEmbeddingRepository(db *gorm.DB) contract.FaqEmbeddingRepository {
	return &FaqEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewFaqEmbeddingMapper(),
	}
}

func (r *FaqEmbeddingRepositoryImpl) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).AutoMigrate(&model.FaqEmbedding{})
}

func (r *FaqEmbeddingRepositoryImpl) UpsertBulk(ctx context.Context, embeddings []*entity.FaqEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	models := make([]*model.FaqEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	// Content-addressed ids: a row with the same id IS the same document, so
	// conflicting inserts replace in place and never duplicate.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding_value", "metadata", "updated_at"}),
		}).
		Create(models).Error
}

func (r *FaqEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredFaqEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query_vector) recovers the similarity.
	type result struct {
		model.FaqEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("faq_embeddings").
		Select("faq_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredFaqEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredFaqEmbedding{
			Embedding:  r.mapper.ToEntity(&res.FaqEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *FaqEmbeddingRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("DELETE FROM faq_embeddings").Error
}

func (r *FaqEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FaqEmbedding{}).Count(&count).Error
	return count, err
}
