// Package splitters provides the pluggable chunking strategies used at
// ingest time. Both strategies are pure functions over the input text.
package splitters

import (
	"fmt"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
)

// Chunk sizes follow the ingestion defaults: character windows for the
// recursive strategy, model-token windows for the token strategy.
const (
	RecursiveChunkSize    = 1000
	RecursiveChunkOverlap = 200
	TokenChunkSize        = 300
	TokenChunkOverlap     = 50
)

// Get resolves a chunking method name to its splitter implementation.
func Get(method string) (interfaces.Splitter, error) {
	switch method {
	case schema.ChunkingToken:
		return NewTokenSplitter(TokenChunkSize, TokenChunkOverlap)
	case schema.ChunkingRecursive:
		return NewRecursiveSplitter(RecursiveChunkSize, RecursiveChunkOverlap)
	default:
		return nil, fmt.Errorf("unsupported chunking method: %q", method)
	}
}
