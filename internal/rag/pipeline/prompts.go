package pipeline

import (
	"fmt"

	"resumerag/internal/rag/schema"
)

// RefusalAnswer is the fixed grounding refusal both prompt variants instruct
// the model to reply with when the answer is absent from the context.
const RefusalAnswer = "I don't know."

const baselinePrompt = "You are a recruitment assistant. Use ONLY the context to answer.\n" +
	"If the answer is not explicitly stated in the context, reply with: \"I don't know.\"\n\n" +
	"Context:\n%s\n\nQuestion: %s"

const strictPrompt = "Act as a precise retrieval QA assistant.\n" +
	"Use only the provided context. If the answer isn't in the context, say: 'I don't know.'\n\n" +
	"Context:\n%s\n\nQuestion: %s\n" +
	"Answer concisely with bullet points where possible."

// BuildPrompt fills the selected prompt variant with the retrieved context
// and the user query.
func BuildPrompt(variant, contextText, query string) (string, error) {
	switch variant {
	case schema.PromptBaseline:
		return fmt.Sprintf(baselinePrompt, contextText, query), nil
	case schema.PromptStrict:
		return fmt.Sprintf(strictPrompt, contextText, query), nil
	default:
		return "", fmt.Errorf("unsupported prompt variant: %q", variant)
	}
}
