// Package service exposes the pipeline operations behind a single facade.
// Component selection is a pure function from the request's PipelineConfig
// to implementations, resolved once per call and never mutated afterwards.
package service

import (
	"context"
	"fmt"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/pipeline"
	"resumerag/internal/rag/schema"
	"resumerag/pkg/logger"
)

// Dependencies is the explicit context object constructed once at process
// start. Every client handle the pipeline needs is injected here; nothing is
// reached through ambient global state, which keeps initialization order and
// test substitution explicit.
type Dependencies struct {
	Log         *logger.Logger
	ParserFor   func(backend string) (interfaces.Parser, error)
	SplitterFor func(method string) (interfaces.Splitter, error)
	EmbedderFor func(model string) (interfaces.EmbeddingModel, error)
	StoreFor    func(ctx context.Context, model string) (interfaces.VectorStore, error)
	RerankerFor func(tag string) (interfaces.Reranker, error)
	LLM         interfaces.LLM
}

// Service sequences the pipeline operations: parse, ingest, retrieve,
// generate and namespace purge.
type Service struct {
	deps Dependencies
}

// New creates a new Service.
func New(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// Parse turns resume file bytes into plain text or markdown using the
// selected parser backend.
func (s *Service) Parse(ctx context.Context, fileBytes []byte, fileExt, backend string) (string, error) {
	parser, err := s.deps.ParserFor(backend)
	if err != nil {
		return "", err
	}
	return parser.Parse(ctx, fileBytes, fileExt)
}

// Ingest chunks, embeds and upserts the text under the config's namespace,
// attaching the caller metadata to every chunk. It returns the chunk count.
func (s *Service) Ingest(ctx context.Context, text string, cfg schema.PipelineConfig, metadata map[string]string) (int, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	splitter, err := s.deps.SplitterFor(cfg.Chunking)
	if err != nil {
		return 0, err
	}
	embedder, err := s.deps.EmbedderFor(cfg.Embedding)
	if err != nil {
		return 0, err
	}
	store, err := s.deps.StoreFor(ctx, cfg.Embedding)
	if err != nil {
		return 0, err
	}

	ingestor := pipeline.NewIngestor(splitter, embedder, store, s.deps.Log)
	return ingestor.Run(ctx, text, cfg.Namespace, metadata)
}

// Retrieve returns at most cfg.K documents for the query from the config's
// namespace, applying the configured rerank strategy.
func (s *Service) Retrieve(ctx context.Context, query string, cfg schema.PipelineConfig) ([]*schema.Document, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	retriever, err := s.buildRetriever(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return retriever.Run(ctx, query, cfg.Namespace, cfg.K)
}

// Generate answers the query with retrieval-augmented generation and returns
// the answer together with the supporting documents.
func (s *Service) Generate(ctx context.Context, query string, cfg schema.PipelineConfig) (string, []*schema.Document, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}

	retriever, err := s.buildRetriever(ctx, cfg)
	if err != nil {
		return "", nil, err
	}
	generator := pipeline.NewGenerator(retriever, s.deps.LLM, cfg.Prompt, s.deps.Log)
	return generator.Run(ctx, query, cfg.Namespace, cfg.K)
}

// PurgeNamespace deletes every vector in the namespace across the
// collections of both embedding models. Irreversible.
func (s *Service) PurgeNamespace(ctx context.Context, namespace string) error {
	for _, model := range []string{schema.EmbeddingSmall, schema.EmbeddingLarge} {
		store, err := s.deps.StoreFor(ctx, model)
		if err != nil {
			return err
		}
		if err := store.DeleteAll(ctx, namespace); err != nil {
			return fmt.Errorf("failed to purge namespace %q: %w", namespace, err)
		}
	}
	return nil
}

// buildRetriever resolves the rerank strategy into retriever components.
func (s *Service) buildRetriever(ctx context.Context, cfg schema.PipelineConfig) (*pipeline.Retriever, error) {
	embedder, err := s.deps.EmbedderFor(cfg.Embedding)
	if err != nil {
		return nil, err
	}
	store, err := s.deps.StoreFor(ctx, cfg.Embedding)
	if err != nil {
		return nil, err
	}

	var reranker interfaces.Reranker
	var extractor *pipeline.Extractor
	switch cfg.Rerank {
	case schema.RerankNone:
	case schema.RerankLLM:
		extractor = pipeline.NewExtractor(s.deps.LLM, s.deps.Log)
	default:
		reranker, err = s.deps.RerankerFor(cfg.Rerank)
		if err != nil {
			return nil, err
		}
	}

	return pipeline.NewRetriever(embedder, store, reranker, extractor, s.deps.Log), nil
}
