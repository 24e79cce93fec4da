package vectorindex

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fintech-assistant-be/internal/entity"
	"fintech-assistant-be/internal/repository/contract"
	"fintech-assistant-be/pkg/embedding"

	gocache "github.com/patrickmn/go-cache"
)

// ErrRetrievalUnavailable marks transient failures of the embedding model or
// the backing index. Callers degrade instead of crashing.
var ErrRetrievalUnavailable = errors.New("retrieval backend unavailable")

// upsertBatchSize keeps each write under backend request-size limits. Each
// batch is an independent unit of work: a failure partway through never
// corrupts batches already committed.
const upsertBatchSize = 100

// Document is a unit of knowledge to index. Immutable; its identity is
// derived from its content.
type Document struct {
	Text     string
	Metadata map[string]interface{}
}

// Match is one retrieval result, ordered by descending similarity.
type Match struct {
	Text       string
	Metadata   map[string]interface{}
	Similarity float64
}

// Index wraps the persistent vector store: it turns text into vectors via the
// embedding provider, stores them under content-addressed ids, and answers
// nearest-neighbor queries by cosine similarity.
type Index struct {
	provider embedding.Provider
	repo     contract.FaqEmbeddingRepository

	// embed(x) is deterministic, so memoizing repeated texts is safe.
	embedCache *gocache.Cache
}

func New(provider embedding.Provider, repo contract.FaqEmbeddingRepository) *Index {
	return &Index{
		provider:   provider,
		repo:       repo,
		embedCache: gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// EnsureReady creates the index schema when missing. Idempotent; called once
// at process start.
func (idx *Index) EnsureReady(ctx context.Context) error {
	if err := idx.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}
	return nil
}

// Embed maps text to its vector through the embedding model.
func (idx *Index) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	cacheKey := taskType + "\x00" + text
	if cached, found := idx.embedCache.Get(cacheKey); found {
		return cached.([]float32), nil
	}

	vector, err := idx.provider.Embed(ctx, text, taskType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	idx.embedCache.Set(cacheKey, vector, gocache.DefaultExpiration)
	return vector, nil
}

// ContentID derives the record id from a digest of the canonical, key-sorted
// serialization of {text, metadata}. Identical content maps to identical
// identity, which makes re-ingestion idempotent.
func ContentID(doc Document) string {
	// encoding/json sorts map keys, so the serialization is canonical.
	payload, _ := json.Marshal(map[string]interface{}{
		"text":     doc.Text,
		"metadata": doc.Metadata,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Upsert embeds and writes the documents in batches. Re-adding identical
// content replaces the existing record under the same id.
func (idx *Index) Upsert(ctx context.Context, docs []Document) error {
	records := make([]*entity.FaqEmbedding, 0, len(docs))

	for _, doc := range docs {
		vector, err := idx.Embed(ctx, doc.Text, embedding.TaskTypeRetrievalDocument)
		if err != nil {
			return err
		}

		// The index has no separate document store, so the original text
		// rides along inside the metadata.
		metadata := make(map[string]interface{}, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata["text"] = doc.Text

		records = append(records, &entity.FaqEmbedding{
			Id:        ContentID(doc),
			Embedding: vector,
			Metadata:  metadata,
		})
	}

	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := idx.repo.UpsertBulk(ctx, records[start:end]); err != nil {
			return fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
		}
	}

	return nil
}

// Search embeds the query and returns up to topK matches ordered by
// descending cosine similarity. An empty index yields an empty slice, never
// an error.
func (idx *Index) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	queryVector, err := idx.Embed(ctx, query, embedding.TaskTypeRetrievalQuery)
	if err != nil {
		return nil, err
	}

	scored, err := idx.repo.SearchSimilarWithScore(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	matches := make([]Match, 0, len(scored))
	for _, s := range scored {
		text, _ := s.Embedding.Metadata["text"].(string)

		// Strip the duplicated text field back out of the metadata.
		metadata := make(map[string]interface{}, len(s.Embedding.Metadata))
		for k, v := range s.Embedding.Metadata {
			if k == "text" {
				continue
			}
			metadata[k] = v
		}

		matches = append(matches, Match{
			Text:       text,
			Metadata:   metadata,
			Similarity: s.Similarity,
		})
	}

	return matches, nil
}

// DeleteAll removes every vector. The embed cache stays warm, embeddings do
// not depend on what is stored.
func (idx *Index) DeleteAll(ctx context.Context) error {
	if err := idx.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}
	return nil
}

// Count reports how many vectors the index holds.
func (idx *Index) Count(ctx context.Context) (int64, error) {
	n, err := idx.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}
	return n, nil
}
