package embedding

import "context"

// Gemini task types; the ollama provider ignores them.
const (
	TaskTypeRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider maps text to a fixed-dimension vector. Implementations wrap a
// stateless pretrained model: the same text always yields the same vector.
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}
