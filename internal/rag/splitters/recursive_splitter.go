package splitters

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
)

// defaultSeparators orders break points from strongest to weakest semantic
// boundary: paragraph, line, sentence, word. The empty separator is the hard
// character cut of last resort.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter implements the Splitter interface by splitting text at
// progressively weaker boundaries until every piece fits in ChunkSize
// characters, then merging pieces back into chunks with ChunkOverlap
// characters carried between consecutive chunks.
type RecursiveSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	separators   []string
}

// NewRecursiveSplitter creates a new RecursiveSplitter.
func NewRecursiveSplitter(chunkSize, chunkOverlap int) (*RecursiveSplitter, error) {
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", chunkOverlap, chunkSize)
	}
	return &RecursiveSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}, nil
}

// Split splits the text into chunk documents, preserving document order.
// Separators stay attached to the piece they terminate, so concatenating all
// pieces reproduces the input exactly.
func (s *RecursiveSplitter) Split(ctx context.Context, text string) ([]*schema.Document, error) {
	if text == "" {
		return nil, nil
	}

	pieces := s.splitRecursive(text, s.separators)
	merged := s.merge(pieces)

	var chunks []*schema.Document
	for _, chunk := range merged {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		chunks = append(chunks, &schema.Document{
			ID:       uuid.New().String(),
			Content:  chunk,
			Metadata: make(map[string]string),
		})
	}
	return chunks, nil
}

// splitRecursive breaks text into pieces no longer than ChunkSize, trying
// each separator in order before falling back to a hard character cut.
func (s *RecursiveSplitter) splitRecursive(text string, separators []string) []string {
	if len(text) <= s.ChunkSize {
		return []string{text}
	}
	if len(separators) == 0 {
		return s.hardCut(text)
	}

	sep := separators[0]
	if sep == "" {
		return s.hardCut(text)
	}

	parts := strings.SplitAfter(text, sep)
	if len(parts) == 1 {
		// Separator not present, move to the next weaker boundary.
		return s.splitRecursive(text, separators[1:])
	}

	var pieces []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) <= s.ChunkSize {
			pieces = append(pieces, part)
		} else {
			pieces = append(pieces, s.splitRecursive(part, separators[1:])...)
		}
	}
	return pieces
}

// hardCut slices text into ChunkSize windows on rune boundaries.
func (s *RecursiveSplitter) hardCut(text string) []string {
	runes := []rune(text)
	var pieces []string
	for start := 0; start < len(runes); {
		end := start
		// Advance until adding another rune would exceed the byte budget.
		size := 0
		for end < len(runes) {
			r := len(string(runes[end]))
			if size+r > s.ChunkSize && size > 0 {
				break
			}
			size += r
			end++
		}
		pieces = append(pieces, string(runes[start:end]))
		start = end
	}
	return pieces
}

// merge packs pieces into chunks of at most ChunkSize characters, carrying a
// tail of at most ChunkOverlap characters into the next chunk.
func (s *RecursiveSplitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	currentLen := 0

	for _, piece := range pieces {
		if currentLen > 0 && currentLen+len(piece) > s.ChunkSize {
			chunks = append(chunks, strings.Join(current, ""))
			// Keep trailing pieces as overlap, dropping more if the incoming
			// piece would still not fit.
			for currentLen > 0 && (currentLen > s.ChunkOverlap || currentLen+len(piece) > s.ChunkSize) {
				currentLen -= len(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		currentLen += len(piece)
	}
	if currentLen > 0 {
		chunks = append(chunks, strings.Join(current, ""))
	}
	return chunks
}

// compile-time check to ensure RecursiveSplitter implements the Splitter interface
var _ interfaces.Splitter = (*RecursiveSplitter)(nil)
