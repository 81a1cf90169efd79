// Package vectorstore provides the namespaced vector persistence layer.
// The Milvus implementation maps one namespace to one collection partition,
// so chunks ingested under a namespace are only ever visible to queries
// against that same namespace.
package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
	"resumerag/pkg/logger"
)

// Schema fields of the resume chunk collection.
const (
	FieldID        = "id"
	FieldContent   = "content"
	FieldMetadata  = "metadata"
	FieldEmbedding = "embedding"
)

const (
	idMaxLength      = 64
	contentMaxLength = 65535
	nlist            = 128
	nprobe           = 10
)

// MilvusStore implements the VectorStore interface on top of milvus-sdk-go.
// Each embedding dimension gets its own collection (the two embedding models
// produce different vector widths), and each namespace is a partition.
type MilvusStore struct {
	log        *logger.Logger
	client     client.Client
	collection string
}

// NewMilvusStore creates a MilvusStore for the given base collection name
// and embedding dimension, creating and loading the collection on first use.
func NewMilvusStore(ctx context.Context, c client.Client, baseCollection string, dim int, log *logger.Logger) (*MilvusStore, error) {
	if c == nil {
		return nil, fmt.Errorf("milvus client is not initialized")
	}
	s := &MilvusStore{
		log:        log,
		client:     c,
		collection: fmt.Sprintf("%s_%d", baseCollection, dim),
	}
	if err := s.ensureCollection(ctx, dim); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureCollection creates the chunk collection and its index if missing,
// then loads it for search.
func (s *MilvusStore) ensureCollection(ctx context.Context, dim int) error {
	exists, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %q: %w", s.collection, err)
	}

	if !exists {
		collSchema := &entity.Schema{
			CollectionName: s.collection,
			Description:    "resume chunks with caller metadata",
			Fields: []*entity.Field{
				{Name: FieldID, DataType: entity.FieldTypeVarChar, PrimaryKey: true,
					TypeParams: map[string]string{entity.TypeParamMaxLength: fmt.Sprintf("%d", idMaxLength)}},
				{Name: FieldContent, DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{entity.TypeParamMaxLength: fmt.Sprintf("%d", contentMaxLength)}},
				{Name: FieldMetadata, DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{entity.TypeParamMaxLength: fmt.Sprintf("%d", contentMaxLength)}},
				{Name: FieldEmbedding, DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{entity.TypeParamDim: fmt.Sprintf("%d", dim)}},
			},
		}
		if err := s.client.CreateCollection(ctx, collSchema, 1); err != nil {
			return fmt.Errorf("failed to create collection %q: %w", s.collection, err)
		}

		index, err := entity.NewIndexIvfFlat(entity.L2, nlist)
		if err != nil {
			return fmt.Errorf("failed to build index definition: %w", err)
		}
		if err := s.client.CreateIndex(ctx, s.collection, FieldEmbedding, index, false); err != nil {
			return fmt.Errorf("failed to create index on %q: %w", s.collection, err)
		}
		s.log.Info(fmt.Sprintf("Created collection %q (dim=%d)", s.collection, dim))
	}

	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("failed to load collection %q: %w", s.collection, err)
	}
	return nil
}

// ensurePartition creates the partition for a namespace if it does not exist.
func (s *MilvusStore) ensurePartition(ctx context.Context, namespace string) error {
	exists, err := s.client.HasPartition(ctx, s.collection, namespace)
	if err != nil {
		return fmt.Errorf("failed to check partition %q: %w", namespace, err)
	}
	if exists {
		return nil
	}
	if err := s.client.CreatePartition(ctx, s.collection, namespace); err != nil {
		return fmt.Errorf("failed to create partition %q: %w", namespace, err)
	}
	return nil
}

// Upsert inserts the chunks with their vectors and metadata into the
// namespace partition. Writes already issued stay persisted on failure.
func (s *MilvusStore) Upsert(ctx context.Context, namespace string, docs []*schema.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := s.ensurePartition(ctx, namespace); err != nil {
		return err
	}

	ids := make([]string, len(docs))
	contents := make([]string, len(docs))
	metadatas := make([]string, len(docs))
	embeddings := make([][]float32, len(docs))
	dim := 0

	for i, doc := range docs {
		ids[i] = doc.ID
		contents[i] = doc.Content
		embeddings[i] = doc.Embedding
		if len(doc.Embedding) > dim {
			dim = len(doc.Embedding)
		}
		encoded, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for chunk %s: %w", doc.ID, err)
		}
		metadatas[i] = string(encoded)
	}

	idCol := entity.NewColumnVarChar(FieldID, ids)
	contentCol := entity.NewColumnVarChar(FieldContent, contents)
	metadataCol := entity.NewColumnVarChar(FieldMetadata, metadatas)
	embeddingCol := entity.NewColumnFloatVector(FieldEmbedding, dim, embeddings)

	s.log.Info(fmt.Sprintf("Inserting %d chunks into %q partition %q", len(docs), s.collection, namespace))
	if _, err := s.client.Insert(ctx, s.collection, namespace, idCol, contentCol, metadataCol, embeddingCol); err != nil {
		return fmt.Errorf("failed to insert chunks into milvus: %w", err)
	}
	return nil
}

// Query searches the namespace partition for the topK nearest neighbors.
// Scores are raw L2 distances, so lower means more similar. A namespace
// that was never written returns an empty result, not an error.
func (s *MilvusStore) Query(ctx context.Context, namespace string, embedding []float32, topK int) ([]*schema.Document, error) {
	exists, err := s.client.HasPartition(ctx, s.collection, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to check partition %q: %w", namespace, err)
	}
	if !exists {
		return nil, nil
	}

	searchParams, err := entity.NewIndexIvfFlatSearchParam(nprobe)
	if err != nil {
		return nil, fmt.Errorf("failed to build search params: %w", err)
	}

	results, err := s.client.Search(
		ctx, s.collection, []string{namespace}, "",
		[]string{FieldID, FieldContent, FieldMetadata},
		[]entity.Vector{entity.FloatVector(embedding)},
		FieldEmbedding, entity.L2, topK, searchParams,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	var docs []*schema.Document
	for _, res := range results {
		findColumn := func(name string) *entity.ColumnVarChar {
			for _, field := range res.Fields {
				if field.Name() == name {
					if col, ok := field.(*entity.ColumnVarChar); ok {
						return col
					}
				}
			}
			return nil
		}

		idCol := findColumn(FieldID)
		contentCol := findColumn(FieldContent)
		metadataCol := findColumn(FieldMetadata)
		if idCol == nil || contentCol == nil {
			s.log.Warn("Search result is missing expected fields, skipping")
			continue
		}

		for i := 0; i < res.ResultCount; i++ {
			doc := &schema.Document{
				ID:       idCol.Data()[i],
				Content:  contentCol.Data()[i],
				Metadata: make(map[string]string),
				Score:    float64(res.Scores[i]),
			}
			if metadataCol != nil {
				if err := json.Unmarshal([]byte(metadataCol.Data()[i]), &doc.Metadata); err != nil {
					s.log.Warn(fmt.Sprintf("Failed to decode metadata for chunk %s", doc.ID))
					doc.Metadata = make(map[string]string)
				}
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// DeleteAll drops the namespace partition and every vector in it.
// Deleting an absent namespace is a no-op.
func (s *MilvusStore) DeleteAll(ctx context.Context, namespace string) error {
	exists, err := s.client.HasPartition(ctx, s.collection, namespace)
	if err != nil {
		return fmt.Errorf("failed to check partition %q: %w", namespace, err)
	}
	if !exists {
		return nil
	}
	if err := s.client.ReleasePartitions(ctx, s.collection, []string{namespace}); err != nil {
		return fmt.Errorf("failed to release partition %q: %w", namespace, err)
	}
	if err := s.client.DropPartition(ctx, s.collection, namespace); err != nil {
		return fmt.Errorf("failed to drop partition %q: %w", namespace, err)
	}
	s.log.Info(fmt.Sprintf("Purged namespace %q from %q", namespace, s.collection))
	return nil
}

// compile-time check to ensure MilvusStore implements the VectorStore interface
var _ interfaces.VectorStore = (*MilvusStore)(nil)
