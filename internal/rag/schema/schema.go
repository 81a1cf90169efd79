package schema

const (
	// MetadataKeyParser records which parser backend produced the source text.
	MetadataKeyParser = "parser"
	// MetadataKeyChunking records the chunking strategy used at ingest time.
	MetadataKeyChunking = "chunking"
	// MetadataKeyEmbedding records the embedding model used at ingest time.
	MetadataKeyEmbedding = "embedding"
	// MetadataKeyFileName is the key for the source file name.
	MetadataKeyFileName = "file_name"
)

// Document is the central data structure representing a span of resume text
// as it moves through the pipeline. Before ingestion it is a chunk; when it
// comes back from the vector store it is a retrieved document with a score.
type Document struct {
	// ID is the unique identifier for this chunk.
	ID string `json:"id"`

	// Content is the text of the chunk.
	Content string `json:"content"`

	// Metadata holds caller-attached string data about the chunk
	// (parser used, chunking strategy, embedding model, file name).
	// It is immutable after ingestion.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Embedding is the vector representation of Content. Only populated
	// between the embedding step and the vector-store upsert; never
	// serialized in API responses.
	Embedding []float32 `json:"-"`

	// Score is the ranking signal attached by the vector store or a
	// reranker. Its direction depends on the producer: Milvus reports an
	// L2 distance (lower is better), the in-memory store a cosine
	// similarity and rerankers a relevance score (higher is better).
	// Scores from different producers are not comparable. Zero for
	// documents that have not been scored.
	Score float64 `json:"score"`
}

// CopyMetadata returns a copy of the document metadata, never nil.
// Chunks produced from one source document must not share maps.
func CopyMetadata(md map[string]string) map[string]string {
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
