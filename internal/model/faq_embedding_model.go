package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type FaqEmbedding struct {
	Id             string            `gorm:"type:varchar(64);primaryKey"` // sha256 hex digest
	EmbeddingValue pgvector.Vector   `gorm:"type:vector(768)"`            // text-embedding-004 uses 768 dimensions
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime"`
}

func (FaqEmbedding) TableName() string {
	return "faq_embeddings"
}
