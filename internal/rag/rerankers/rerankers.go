// Package rerankers provides the second-pass scoring strategies applied to
// oversampled retrieval candidates. All strategies expose the same
// rerank(query, docs, topK) contract and attach relevance scores.
package rerankers

import (
	"fmt"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
)

// DefaultCohereModel is the hosted rerank model used when none is configured.
const DefaultCohereModel = "rerank-english-v3.0"

// Options carries the credentials and endpoints the strategies need.
type Options struct {
	CohereAPIKey string
	CohereModel  string
	BGEEndpoint  string
}

// Get resolves a rerank strategy tag to its implementation.
// The "none" and "llm" tags have no standalone reranker: "none" keeps vector
// order and "llm" is handled by the retriever's extraction path.
func Get(tag string, opts Options) (interfaces.Reranker, error) {
	switch tag {
	case schema.RerankBGE:
		if opts.BGEEndpoint == "" {
			return nil, fmt.Errorf("bge reranker selected but no scoring endpoint configured")
		}
		return NewBGEReranker(opts.BGEEndpoint), nil
	case schema.RerankCohere:
		if opts.CohereAPIKey == "" {
			return nil, fmt.Errorf("COHERE_API_KEY not set for cohere reranker")
		}
		model := opts.CohereModel
		if model == "" {
			model = DefaultCohereModel
		}
		return NewCohereReranker(opts.CohereAPIKey, model), nil
	default:
		return nil, fmt.Errorf("unsupported rerank strategy: %q", tag)
	}
}
