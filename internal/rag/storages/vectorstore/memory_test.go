package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/rag/schema"
)

func doc(id, content string, embedding []float32) *schema.Document {
	return &schema.Document{
		ID:        id,
		Content:   content,
		Metadata:  map[string]string{"chunking": "recursive"},
		Embedding: embedding,
	}
}

func TestMemoryStoreNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, "ns1", []*schema.Document{
		doc("a", "Jane Doe has 5 years of React experience.", []float32{1, 0, 0}),
	}))

	// Querying the written namespace finds the chunk.
	docs, err := store.Query(ctx, "ns1", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)

	// A different namespace sees none of ns1's data.
	docs, err = store.Query(ctx, "ns2", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryStoreRanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, "ns", []*schema.Document{
		doc("far", "hiking", []float32{0, 1, 0}),
		doc("near", "react", []float32{1, 0.1, 0}),
		doc("mid", "golang", []float32{0.5, 0.5, 0}),
	}))

	docs, err := store.Query(ctx, "ns", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "near", docs[0].ID)
	assert.Equal(t, "mid", docs[1].ID)
	assert.Greater(t, docs[0].Score, docs[1].Score)
}

func TestMemoryStoreQueryDoesNotExposeInternalState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, "ns", []*schema.Document{
		doc("a", "content", []float32{1, 0}),
	}))

	docs, err := store.Query(ctx, "ns", []float32{1, 0}, 1)
	require.NoError(t, err)
	docs[0].Metadata["mutated"] = "yes"

	again, err := store.Query(ctx, "ns", []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.NotContains(t, again[0].Metadata, "mutated")
}

func TestMemoryStoreDeleteAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, "ns", []*schema.Document{doc("a", "x", []float32{1})}))
	require.NoError(t, store.DeleteAll(ctx, "ns"))

	docs, err := store.Query(ctx, "ns", []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, docs)

	// Deleting an absent namespace is a no-op.
	assert.NoError(t, store.DeleteAll(ctx, "never-written"))
}
