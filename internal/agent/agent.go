// Package agent runs the tool-calling orchestration loop. The model plans,
// picks pipeline tools, observes their results and answers; the loop itself
// never decides anything beyond dispatching the calls the model requests.
package agent

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"resumerag/internal/namespace"
	"resumerag/internal/rag/service"
	"resumerag/pkg/logger"
)

// maxIterations bounds the plan-act-observe loop.
const maxIterations = 10

const systemPrompt = "You are a recruitment assistant that answers questions about candidate resumes. " +
	"Use the tools to parse resume files, ingest resume text under a candidate namespace, " +
	"and answer questions from ingested resumes. " +
	"Answer with plain text once you have what you need."

// ChatClient is the slice of the OpenAI client the loop needs. *openai.Client
// satisfies it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest, opts ...openai.ChatCompletionRequestOption) (openai.ChatCompletionResponse, error)
}

// compile-time check to ensure the OpenAI client satisfies ChatClient
var _ ChatClient = (*openai.Client)(nil)

// Step records one event of the loop transcript: a tool invocation with its
// observation, or the model's final text.
type Step struct {
	Tool        string `json:"tool,omitempty"`
	Arguments   string `json:"arguments,omitempty"`
	Observation string `json:"observation,omitempty"`
	Text        string `json:"text,omitempty"`
}

// Result is the outcome of one orchestrated task.
type Result struct {
	Answer string `json:"answer"`
	Steps  []Step `json:"steps"`
}

// Orchestrator drives the tool-calling loop over the pipeline service.
type Orchestrator struct {
	client   ChatClient
	model    string
	svc      *service.Service
	registry *namespace.Registry
	log      *logger.Logger
}

// New creates a new Orchestrator.
func New(client ChatClient, model string, svc *service.Service, registry *namespace.Registry, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		client:   client,
		model:    model,
		svc:      svc,
		registry: registry,
		log:      log,
	}
}

// Run executes the loop for one user task. Tool calls requested in one model
// turn run sequentially in the order the model listed them; their
// observations go back as tool messages before the next model turn.
func (o *Orchestrator) Run(ctx context.Context, task string) (*Result, error) {
	history := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: task},
	}
	tools := toolDefinitions()
	result := &Result{}

	for i := 0; i < maxIterations; i++ {
		o.log.WithPayload(map[string]interface{}{"iteration": i + 1}).Info("Agent loop iteration")

		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    o.model,
			Messages: history,
			Tools:    tools,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("model returned no choices")
		}
		message := resp.Choices[0].Message

		if len(message.ToolCalls) == 0 {
			result.Answer = message.Content
			result.Steps = append(result.Steps, Step{Text: message.Content})
			o.log.Info("Agent produced final answer")
			return result, nil
		}

		history = append(history, message)
		for _, call := range message.ToolCalls {
			o.log.WithPayload(map[string]interface{}{"tool": call.Function.Name}).Info("Agent invoking tool")
			observation := o.dispatchTool(ctx, call.Function.Name, call.Function.Arguments)
			result.Steps = append(result.Steps, Step{
				Tool:        call.Function.Name,
				Arguments:   call.Function.Arguments,
				Observation: observation,
			})
			history = append(history, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    observation,
				ToolCallID: call.ID,
			})
		}
	}

	return nil, fmt.Errorf("reached max iterations")
}
