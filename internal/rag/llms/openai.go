// Package llms provides the chat-model adapter used for answer generation
// and extractive compression.
package llms

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"resumerag/internal/rag/interfaces"
)

// OpenAI is an LLM backed by the OpenAI chat completions API.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAI creates a new OpenAI chat adapter.
func NewOpenAI(client *openai.Client, model string, temperature float32) *OpenAI {
	return &OpenAI{client: client, model: model, temperature: temperature}
}

// Generate sends a single user prompt and returns the raw model text.
// One synchronous call, no retries, no streaming.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := o.temperature
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: &temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// compile-time check to ensure OpenAI implements the LLM interface
var _ interfaces.LLM = (*OpenAI)(nil)
