package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
)

// MemoryStore is a thread-safe, in-memory VectorStore using brute-force
// cosine similarity. It backs tests and offline runs where no Milvus
// deployment is available; namespace isolation matches the Milvus store.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string][]*schema.Document
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string][]*schema.Document)}
}

// Upsert appends the chunks to the namespace.
func (s *MemoryStore) Upsert(ctx context.Context, namespace string, docs []*schema.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		stored := *doc
		stored.Metadata = schema.CopyMetadata(doc.Metadata)
		s.namespaces[namespace] = append(s.namespaces[namespace], &stored)
	}
	return nil
}

// Query returns the topK documents of the namespace ranked by cosine
// similarity. An unknown namespace returns an empty result.
func (s *MemoryStore) Query(ctx context.Context, namespace string, embedding []float32, topK int) ([]*schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.namespaces[namespace]
	if len(stored) == 0 {
		return nil, nil
	}

	results := make([]*schema.Document, 0, len(stored))
	for _, doc := range stored {
		scored := *doc
		scored.Metadata = schema.CopyMetadata(doc.Metadata)
		scored.Score = cosine(doc.Embedding, embedding)
		results = append(results, &scored)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// DeleteAll removes every document in the namespace.
func (s *MemoryStore) DeleteAll(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, namespace)
	return nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// compile-time check to ensure MemoryStore implements the VectorStore interface
var _ interfaces.VectorStore = (*MemoryStore)(nil)
