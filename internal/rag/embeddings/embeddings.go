package embeddings

import (
	"fmt"

	"resumerag/internal/rag/schema"
)

// Vector widths of the supported embedding models.
const (
	SmallDim = 1536
	LargeDim = 3072
)

// Dim returns the vector width produced by a supported embedding model.
func Dim(model string) (int, error) {
	switch model {
	case schema.EmbeddingSmall:
		return SmallDim, nil
	case schema.EmbeddingLarge:
		return LargeDim, nil
	default:
		return 0, fmt.Errorf("unsupported embedding model: %q", model)
	}
}
