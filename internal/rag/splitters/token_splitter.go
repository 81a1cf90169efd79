package splitters

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
)

// TokenSplitter implements the Splitter interface by windowing over model
// tokens: at most ChunkSize tokens per chunk with ChunkOverlap tokens shared
// between consecutive chunks.
type TokenSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	tokenizer    *tiktoken.Tiktoken
}

// NewTokenSplitter creates a new TokenSplitter.
// It initializes a tokenizer for the cl100k_base encoding, which is used by
// the gpt-4 family and the text-embedding-3 models.
func NewTokenSplitter(chunkSize, chunkOverlap int) (*TokenSplitter, error) {
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", chunkOverlap, chunkSize)
	}
	tke, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}
	return &TokenSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		tokenizer:    tke,
	}, nil
}

// Split windows the text into token chunks, preserving document order.
func (s *TokenSplitter) Split(ctx context.Context, text string) ([]*schema.Document, error) {
	tokens := s.tokenizer.Encode(text, nil, nil)
	if len(tokens) == 0 {
		return nil, nil
	}

	step := s.ChunkSize - s.ChunkOverlap
	var chunks []*schema.Document

	for start := 0; start < len(tokens); start += step {
		end := start + s.ChunkSize
		if end > len(tokens) {
			end = len(tokens)
		}

		chunkText := s.tokenizer.Decode(tokens[start:end])
		if chunkText == "" {
			continue
		}

		chunks = append(chunks, &schema.Document{
			ID:       uuid.New().String(),
			Content:  chunkText,
			Metadata: make(map[string]string),
		})

		if end == len(tokens) {
			break
		}
	}

	return chunks, nil
}

// compile-time check to ensure TokenSplitter implements the Splitter interface
var _ interfaces.Splitter = (*TokenSplitter)(nil)
