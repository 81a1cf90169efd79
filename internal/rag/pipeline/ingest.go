// Package pipeline contains the orchestration core: ingest (chunk, embed,
// upsert), retrieve (query, rerank) and generate (retrieve, prompt, answer).
// Every step is a synchronous call into an injected component; failures from
// external dependencies propagate unchanged to the caller.
package pipeline

import (
	"context"
	"fmt"

	"resumerag/internal/rag/interfaces"
	"resumerag/pkg/logger"
)

// Ingestor orchestrates chunking, embedding and the vector-store upsert for
// one source text.
type Ingestor struct {
	splitter interfaces.Splitter
	embedder interfaces.EmbeddingModel
	store    interfaces.VectorStore
	log      *logger.Logger
}

// NewIngestor creates a new Ingestor.
func NewIngestor(
	splitter interfaces.Splitter,
	embedder interfaces.EmbeddingModel,
	store interfaces.VectorStore,
	log *logger.Logger,
) *Ingestor {
	return &Ingestor{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		log:      log,
	}
}

// Run splits the text, merges caller metadata into every chunk (caller keys
// win on conflict), embeds the chunks and upserts them into the namespace.
// It returns the number of chunks written. There is no rollback: upserts
// already issued stay persisted if a later step fails.
func (p *Ingestor) Run(ctx context.Context, text, namespace string, metadata map[string]string) (int, error) {
	// 1. Split the text into chunks
	chunks, err := p.splitter.Split(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("failed to split text: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	p.log.Info(fmt.Sprintf("Split text into %d chunks for namespace %q", len(chunks), namespace))

	// 2. Merge caller metadata into every chunk, caller keys winning
	for _, chunk := range chunks {
		if chunk.Metadata == nil {
			chunk.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			chunk.Metadata[k] = v
		}
	}

	// 3. Embed all chunk contents in one batch
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	embeddings, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}
	for i, chunk := range chunks {
		chunk.Embedding = embeddings[i]
	}

	// 4. Upsert into the namespace
	if err := p.store.Upsert(ctx, namespace, chunks); err != nil {
		return 0, err
	}

	p.log.Info(fmt.Sprintf("Ingested %d chunks into namespace %q", len(chunks), namespace))
	return len(chunks), nil
}
