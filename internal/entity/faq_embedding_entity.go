package entity

import "time"

// FaqEmbedding is a vector record in the knowledge index. Id is a sha256
// digest of the canonicalized {text, metadata} pair, so re-ingesting the same
// content always lands on the same row. Metadata carries the original text
// under the "text" key because the index has no separate document store.
type FaqEmbedding struct {
	Id        string
	Embedding []float32
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}
