package pipeline

import (
	"context"
	"fmt"
	"strings"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
	"resumerag/pkg/logger"
)

// extractNoOutput is the marker the extraction prompt asks the model to
// return when a document contains nothing relevant to the query.
const extractNoOutput = "NO_OUTPUT"

const extractPrompt = "Given the following question and context, extract any part of the context " +
	"*AS IS* that is relevant to answer the question. If none of the context is relevant, " +
	"return " + extractNoOutput + ".\n\n" +
	"Question: %s\n\nContext:\n>>>\n%s\n>>>\n\nExtracted relevant parts:"

// Extractor is the model-driven compression step of the llm rerank strategy:
// each retrieved document is rewritten to the span most relevant to the
// query, and documents with no relevant span are dropped.
type Extractor struct {
	llm interfaces.LLM
	log *logger.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(llm interfaces.LLM, log *logger.Logger) *Extractor {
	return &Extractor{llm: llm, log: log}
}

// Compress runs the extraction prompt over every document sequentially,
// preserving retrieval order.
func (e *Extractor) Compress(ctx context.Context, query string, docs []*schema.Document) ([]*schema.Document, error) {
	var compressed []*schema.Document
	for _, doc := range docs {
		extracted, err := e.llm.Generate(ctx, fmt.Sprintf(extractPrompt, query, doc.Content))
		if err != nil {
			return nil, fmt.Errorf("extraction failed for chunk %s: %w", doc.ID, err)
		}

		extracted = strings.TrimSpace(extracted)
		if extracted == "" || strings.EqualFold(extracted, extractNoOutput) {
			continue
		}

		out := *doc
		out.Metadata = schema.CopyMetadata(doc.Metadata)
		out.Content = extracted
		compressed = append(compressed, &out)
	}
	e.log.Info(fmt.Sprintf("Extractive compression kept %d of %d documents", len(compressed), len(docs)))
	return compressed, nil
}
