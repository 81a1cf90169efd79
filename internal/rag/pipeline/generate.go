package pipeline

import (
	"context"
	"fmt"
	"strings"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
	"resumerag/pkg/logger"
)

// Generator runs the final question-answering step: retrieve, format the
// prompt, call the model once.
type Generator struct {
	retriever     *Retriever
	llm           interfaces.LLM
	promptVariant string
	log           *logger.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(retriever *Retriever, llm interfaces.LLM, promptVariant string, log *logger.Logger) *Generator {
	return &Generator{
		retriever:     retriever,
		llm:           llm,
		promptVariant: promptVariant,
		log:           log,
	}
}

// Run answers the query from the namespace and returns the raw model text
// together with the documents that backed it, so callers can audit
// grounding. One synchronous model call, no retries, no streaming.
func (p *Generator) Run(ctx context.Context, query, namespace string, k int) (string, []*schema.Document, error) {
	// 1. Retrieve the supporting documents
	docs, err := p.retriever.Run(ctx, query, namespace, k)
	if err != nil {
		return "", nil, err
	}

	// 2. Concatenate their contents in retrieval order
	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}
	contextText := strings.Join(contents, "\n\n")

	// 3. Fill the prompt variant
	prompt, err := BuildPrompt(p.promptVariant, contextText, query)
	if err != nil {
		return "", nil, err
	}

	// 4. Single model call
	p.log.Info(fmt.Sprintf("Generating answer for query %q with %d documents", query, len(docs)))
	answer, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		return "", nil, err
	}
	return answer, docs, nil
}
