package mapper

import (
	"fintech-assistant-be/internal/entity"
	"fintech-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type FaqEmbeddingMapper struct{}

func NewFaqEmbeddingMapper() *FaqEmbeddingMapper {
	return &FaqEmbeddingMapper{}
}

func (m *FaqEmbeddingMapper) ToEntity(e *model.FaqEmbedding) *entity.FaqEmbedding {
	if e == nil {
		return nil
	}

	return &entity.FaqEmbedding{
		Id:        e.Id,
		Embedding: e.EmbeddingValue.Slice(),
		Metadata:  map[string]interface{}(e.Metadata),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *FaqEmbeddingMapper) ToModel(e *entity.FaqEmbedding) *model.FaqEmbedding {
	if e == nil {
		return nil
	}

	return &model.FaqEmbedding{
		Id:             e.Id,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		Metadata:       datatypes.JSONMap(e.Metadata),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
