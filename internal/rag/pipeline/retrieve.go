package pipeline

import (
	"context"
	"fmt"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
	"resumerag/pkg/logger"
)

// OversampleFloor is the minimum candidate count fetched from the vector
// store before reranking. Oversampling decouples retrieval recall from the
// final context budget, giving rerankers headroom beyond the requested k.
const OversampleFloor = 10

// Retriever orchestrates the vector-store query and the optional second-pass
// reranking to produce the final ranked document list.
type Retriever struct {
	embedder  interfaces.EmbeddingModel
	store     interfaces.VectorStore
	reranker  interfaces.Reranker // set for the bge and cohere strategies
	extractor *Extractor          // set for the llm strategy
	log       *logger.Logger
}

// NewRetriever creates a new Retriever. At most one of reranker and
// extractor is set; with both nil the vector-similarity order is final.
func NewRetriever(
	embedder interfaces.EmbeddingModel,
	store interfaces.VectorStore,
	reranker interfaces.Reranker,
	extractor *Extractor,
	log *logger.Logger,
) *Retriever {
	return &Retriever{
		embedder:  embedder,
		store:     store,
		reranker:  reranker,
		extractor: extractor,
		log:       log,
	}
}

// Run returns at most k documents for the query, scoped to the namespace.
func (p *Retriever) Run(ctx context.Context, query, namespace string, k int) ([]*schema.Document, error) {
	// 1. Embed the query
	embedding, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// The llm strategy queries at exactly k and compresses those documents;
	// it deliberately skips oversampling so extraction runs on the final
	// top-k, not on candidates that would be cut anyway.
	if p.extractor != nil {
		docs, err := p.store.Query(ctx, namespace, embedding, k)
		if err != nil {
			return nil, err
		}
		return p.extractor.Compress(ctx, query, docs)
	}

	// 2. Oversample the vector-store query
	oversample := k
	if oversample < OversampleFloor {
		oversample = OversampleFloor
	}
	docs, err := p.store.Query(ctx, namespace, embedding, oversample)
	if err != nil {
		return nil, err
	}
	p.log.Info(fmt.Sprintf("Retrieved %d candidates from namespace %q", len(docs), namespace))

	// 3. Without a reranker, the vector-similarity order is final
	if p.reranker == nil {
		if len(docs) > k {
			docs = docs[:k]
		}
		return docs, nil
	}

	// 4. Second-pass rerank, truncated to k
	return p.reranker.Rerank(ctx, query, docs, k)
}
