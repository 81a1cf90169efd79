package interfaces

import (
	"context"

	"resumerag/internal/rag/schema"
)

// Parser is the interface for turning a resume file into plain text or
// markdown. Implementations must reject unsupported file extensions.
type Parser interface {
	Parse(ctx context.Context, fileBytes []byte, fileExt string) (string, error)
}

// Splitter is the interface for splitting raw text into an ordered sequence
// of chunk documents. Implementations are pure functions over the text:
// no chunk may be empty and order follows the source document.
type Splitter interface {
	Split(ctx context.Context, text string) ([]*schema.Document, error)
}

// EmbeddingModel is the interface for a text embedding model.
type EmbeddingModel interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the interface for persisting and querying chunk vectors.
// All operations are scoped to a namespace; querying a namespace that was
// never written returns an empty result, not an error.
type VectorStore interface {
	Upsert(ctx context.Context, namespace string, docs []*schema.Document) error
	Query(ctx context.Context, namespace string, embedding []float32, topK int) ([]*schema.Document, error)
	DeleteAll(ctx context.Context, namespace string) error
}

// Reranker is the interface for re-ordering an oversampled candidate set
// against a query. Implementations return at most topK documents with
// scores attached, never dropping below topK when enough candidates exist.
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []*schema.Document, topK int) ([]*schema.Document, error)
}

// LLM is the interface for a chat language model used for answer generation
// and extractive compression.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
