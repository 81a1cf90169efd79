package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"resumerag/internal/rag/schema"
)

// Tool names exposed to the model.
const (
	toolParseResume    = "parse_resume"
	toolIngestText     = "ingest_text"
	toolGenerateAnswer = "generate_answer"
)

// toolDefinitions declares the function schemas sent with every chat
// completion request. The enum constraints mirror the closed sets of
// PipelineConfig so the model cannot pick values the pipeline would reject.
func toolDefinitions() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolParseResume,
				Description: "Parse a resume file (pdf or docx) into plain text. Returns the extracted text.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"file_path": map[string]interface{}{
							"type":        "string",
							"description": "Path to the resume file on disk.",
						},
						"parser": map[string]interface{}{
							"type": "string",
							"enum": []string{schema.ParserBaseline, schema.ParserDocling},
						},
					},
					"required": []string{"file_path"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolIngestText,
				Description: "Chunk, embed and store resume text under a candidate namespace so it can be queried later.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"text": map[string]interface{}{
							"type":        "string",
							"description": "The resume text to ingest.",
						},
						"namespace": map[string]interface{}{
							"type":        "string",
							"description": "Candidate namespace to store the chunks under.",
						},
						"chunking": map[string]interface{}{
							"type": "string",
							"enum": []string{schema.ChunkingRecursive, schema.ChunkingToken},
						},
						"embedding": map[string]interface{}{
							"type": "string",
							"enum": []string{schema.EmbeddingSmall, schema.EmbeddingLarge},
						},
					},
					"required": []string{"text", "namespace"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolGenerateAnswer,
				Description: "Answer a question about an ingested candidate using retrieval-augmented generation.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "The question to answer.",
						},
						"namespace": map[string]interface{}{
							"type":        "string",
							"description": "Candidate namespace to answer from.",
						},
						"embedding": map[string]interface{}{
							"type": "string",
							"enum": []string{schema.EmbeddingSmall, schema.EmbeddingLarge},
						},
						"rerank": map[string]interface{}{
							"type": "string",
							"enum": []string{schema.RerankNone, schema.RerankLLM, schema.RerankBGE, schema.RerankCohere},
						},
						"prompt": map[string]interface{}{
							"type": "string",
							"enum": []string{schema.PromptBaseline, schema.PromptStrict},
						},
						"k": map[string]interface{}{
							"type":        "integer",
							"description": "Number of chunks to retrieve.",
						},
					},
					"required": []string{"query", "namespace"},
				},
			},
		},
	}
}

type parseResumeArgs struct {
	FilePath string `json:"file_path"`
	Parser   string `json:"parser"`
}

type ingestTextArgs struct {
	Text      string `json:"text"`
	Namespace string `json:"namespace"`
	Chunking  string `json:"chunking"`
	Embedding string `json:"embedding"`
}

type generateAnswerArgs struct {
	Query     string `json:"query"`
	Namespace string `json:"namespace"`
	Embedding string `json:"embedding"`
	Rerank    string `json:"rerank"`
	Prompt    string `json:"prompt"`
	K         int    `json:"k"`
}

// dispatchTool executes one tool call and returns the observation to feed
// back to the model. Execution failures become error observations instead of
// aborting the loop, so the model can recover or report them.
func (o *Orchestrator) dispatchTool(ctx context.Context, name, arguments string) string {
	switch name {
	case toolParseResume:
		var args parseResumeArgs
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return errObservation(fmt.Errorf("invalid arguments: %w", err))
		}
		return o.runParseResume(ctx, args)
	case toolIngestText:
		var args ingestTextArgs
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return errObservation(fmt.Errorf("invalid arguments: %w", err))
		}
		return o.runIngestText(ctx, args)
	case toolGenerateAnswer:
		var args generateAnswerArgs
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return errObservation(fmt.Errorf("invalid arguments: %w", err))
		}
		return o.runGenerateAnswer(ctx, args)
	default:
		return errObservation(fmt.Errorf("unknown tool: %q", name))
	}
}

func (o *Orchestrator) runParseResume(ctx context.Context, args parseResumeArgs) string {
	fileBytes, err := os.ReadFile(args.FilePath)
	if err != nil {
		return errObservation(err)
	}
	ext := strings.ToLower(filepath.Ext(args.FilePath))
	backend := args.Parser
	if backend == "" {
		backend = schema.ParserBaseline
	}
	text, err := o.svc.Parse(ctx, fileBytes, ext, backend)
	if err != nil {
		return errObservation(err)
	}
	return okObservation(map[string]interface{}{"text": text})
}

func (o *Orchestrator) runIngestText(ctx context.Context, args ingestTextArgs) string {
	cfg := schema.PipelineConfig{
		Chunking:  args.Chunking,
		Embedding: args.Embedding,
		Namespace: args.Namespace,
	}
	count, err := o.svc.Ingest(ctx, args.Text, cfg, nil)
	if err != nil {
		return errObservation(err)
	}
	if err := o.registry.Add(args.Namespace); err != nil {
		return errObservation(err)
	}
	return okObservation(map[string]interface{}{"chunks": count, "namespace": args.Namespace})
}

func (o *Orchestrator) runGenerateAnswer(ctx context.Context, args generateAnswerArgs) string {
	cfg := schema.PipelineConfig{
		Embedding: args.Embedding,
		Rerank:    args.Rerank,
		Prompt:    args.Prompt,
		K:         args.K,
		Namespace: args.Namespace,
	}
	answer, docs, err := o.svc.Generate(ctx, args.Query, cfg)
	if err != nil {
		return errObservation(err)
	}
	return okObservation(map[string]interface{}{"answer": answer, "sources": len(docs)})
}

func okObservation(payload map[string]interface{}) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return errObservation(err)
	}
	return string(data)
}

func errObservation(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
