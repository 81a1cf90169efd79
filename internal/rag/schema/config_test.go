package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := PipelineConfig{Namespace: "ns"}
	cfg.Normalize()

	assert.Equal(t, ParserBaseline, cfg.Parser)
	assert.Equal(t, ChunkingRecursive, cfg.Chunking)
	assert.Equal(t, EmbeddingSmall, cfg.Embedding)
	assert.Equal(t, RerankNone, cfg.Rerank)
	assert.Equal(t, PromptBaseline, cfg.Prompt)
	assert.Equal(t, DefaultTopK, cfg.K)
	require.NoError(t, cfg.Validate())
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := PipelineConfig{
		Parser:    ParserDocling,
		Chunking:  ChunkingToken,
		Embedding: EmbeddingLarge,
		Rerank:    RerankCohere,
		Prompt:    PromptStrict,
		K:         8,
		Namespace: "ns",
	}
	cfg.Normalize()

	assert.Equal(t, ParserDocling, cfg.Parser)
	assert.Equal(t, ChunkingToken, cfg.Chunking)
	assert.Equal(t, EmbeddingLarge, cfg.Embedding)
	assert.Equal(t, RerankCohere, cfg.Rerank)
	assert.Equal(t, PromptStrict, cfg.Prompt)
	assert.Equal(t, 8, cfg.K)
}

func TestValidateRejectsOutOfSetValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PipelineConfig)
	}{
		{"parser", func(c *PipelineConfig) { c.Parser = "ocr" }},
		{"chunking", func(c *PipelineConfig) { c.Chunking = "semantic" }},
		{"embedding", func(c *PipelineConfig) { c.Embedding = "word2vec" }},
		{"rerank", func(c *PipelineConfig) { c.Rerank = "quantum" }},
		{"prompt", func(c *PipelineConfig) { c.Prompt = "haiku" }},
		{"k", func(c *PipelineConfig) { c.K = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := PipelineConfig{Namespace: "ns"}
			cfg.Normalize()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCopyMetadata(t *testing.T) {
	src := map[string]string{"parser": "baseline"}
	dst := CopyMetadata(src)
	dst["parser"] = "docling"
	assert.Equal(t, "baseline", src["parser"])

	assert.NotNil(t, CopyMetadata(nil))
	assert.Empty(t, CopyMetadata(nil))
}
