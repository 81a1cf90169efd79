package schema

import "fmt"

// Legal values for each pipeline knob. Every knob is a closed set with one
// default; callers pick values per request and the zero value normalizes to
// the defaults.
const (
	ParserBaseline = "baseline"
	ParserDocling  = "docling"

	ChunkingRecursive = "recursive"
	ChunkingToken     = "token"

	EmbeddingSmall = "text-embedding-3-small"
	EmbeddingLarge = "text-embedding-3-large"

	RerankNone   = "none"
	RerankLLM    = "llm"
	RerankBGE    = "bge"
	RerankCohere = "cohere"

	PromptBaseline = "baseline"
	PromptStrict   = "strict"

	DefaultTopK = 5
)

// PipelineConfig carries the six experiment knobs threaded through every
// ingest and query call.
type PipelineConfig struct {
	Parser    string `json:"parser" yaml:"parser"`
	Chunking  string `json:"chunking" yaml:"chunking"`
	Embedding string `json:"embedding" yaml:"embedding"`
	Rerank    string `json:"rerank" yaml:"rerank"`
	Prompt    string `json:"prompt" yaml:"prompt"`
	K         int    `json:"k" yaml:"k"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// Normalize fills empty fields with their defaults.
func (c *PipelineConfig) Normalize() {
	if c.Parser == "" {
		c.Parser = ParserBaseline
	}
	if c.Chunking == "" {
		c.Chunking = ChunkingRecursive
	}
	if c.Embedding == "" {
		c.Embedding = EmbeddingSmall
	}
	if c.Rerank == "" {
		c.Rerank = RerankNone
	}
	if c.Prompt == "" {
		c.Prompt = PromptBaseline
	}
	if c.K == 0 {
		c.K = DefaultTopK
	}
}

// Validate rejects values outside the closed sets before any external call
// is attempted.
func (c *PipelineConfig) Validate() error {
	switch c.Parser {
	case ParserBaseline, ParserDocling:
	default:
		return fmt.Errorf("unsupported parser backend: %q", c.Parser)
	}
	switch c.Chunking {
	case ChunkingRecursive, ChunkingToken:
	default:
		return fmt.Errorf("unsupported chunking method: %q", c.Chunking)
	}
	switch c.Embedding {
	case EmbeddingSmall, EmbeddingLarge:
	default:
		return fmt.Errorf("unsupported embedding model: %q", c.Embedding)
	}
	switch c.Rerank {
	case RerankNone, RerankLLM, RerankBGE, RerankCohere:
	default:
		return fmt.Errorf("unsupported rerank strategy: %q", c.Rerank)
	}
	switch c.Prompt {
	case PromptBaseline, PromptStrict:
	default:
		return fmt.Errorf("unsupported prompt variant: %q", c.Prompt)
	}
	if c.K < 1 {
		return fmt.Errorf("k must be >= 1, got %d", c.K)
	}
	return nil
}
