package eval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resumerag/internal/rag/schema"
	"resumerag/internal/rag/service"
	"resumerag/pkg/logger"
)

// tracingEnvKeys are optional platform variables. Missing ones degrade
// tracing organization, not correctness, so they only warn.
var tracingEnvKeys = []string{"LANGCHAIN_TRACING_V2", "LANGCHAIN_PROJECT"}

// Runner executes one evaluation experiment: ingest the resume once, answer
// every gold question through the pipeline and submit the recorded outputs
// for platform-side scoring.
type Runner struct {
	svc      *service.Service
	platform Platform
	log      *logger.Logger
}

// NewRunner creates a new Runner.
func NewRunner(svc *service.Service, platform Platform, log *logger.Logger) *Runner {
	return &Runner{svc: svc, platform: platform, log: log}
}

// Run ingests the resume at resumePath under cfg, ensures the dataset for the
// gold file exists, answers every gold question and submits the experiment.
// An empty label derives one from the config values.
func (r *Runner) Run(ctx context.Context, resumePath, goldPath string, cfg schema.PipelineConfig, label string) (*Experiment, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r.warnMissingTracingEnv()

	// 1. Parse and ingest the resume once
	fileBytes, err := os.ReadFile(resumePath)
	if err != nil {
		return nil, fmt.Errorf("resume not found: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(resumePath))
	text, err := r.svc.Parse(ctx, fileBytes, ext, cfg.Parser)
	if err != nil {
		return nil, err
	}
	metadata := map[string]string{
		schema.MetadataKeyParser:    cfg.Parser,
		schema.MetadataKeyChunking:  cfg.Chunking,
		schema.MetadataKeyEmbedding: cfg.Embedding,
	}
	count, err := r.svc.Ingest(ctx, text, cfg, metadata)
	if err != nil {
		return nil, err
	}
	r.log.Info(fmt.Sprintf("Ingested %d chunks from %s into namespace %q", count, filepath.Base(resumePath), cfg.Namespace))

	// 2. Ensure the dataset holds every gold example
	gold, err := LoadGold(goldPath)
	if err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(filepath.Base(resumePath), ext)
	datasetName := "Resume-QA::" + stem
	if err := r.platform.EnsureDataset(ctx, datasetName, "Manual resume QA dataset", gold); err != nil {
		return nil, err
	}
	r.log.Info(fmt.Sprintf("Dataset ready: %s with %d examples", datasetName, len(gold)))

	// 3. Answer every question through the pipeline
	runs := make([]Run, 0, len(gold))
	for _, ex := range gold {
		answer, docs, err := r.svc.Generate(ctx, ex.Question, cfg)
		if err != nil {
			return nil, err
		}
		contents := make([]string, len(docs))
		for i, doc := range docs {
			contents[i] = doc.Content
		}
		runs = append(runs, Run{
			Question: ex.Question,
			Answer:   answer,
			Context:  strings.Join(contents, "\n\n"),
		})
	}

	// 4. Submit for platform-side scoring
	if label == "" {
		label = fmt.Sprintf("%s-%s-%s-%s-%s", cfg.Parser, cfg.Chunking, cfg.Embedding, cfg.Rerank, cfg.Prompt)
	}
	experimentName := fmt.Sprintf("manual::%s::%s", stem, label)
	r.log.Info(fmt.Sprintf("Submitting experiment %q with %d runs", experimentName, len(runs)))
	return r.platform.SubmitExperiment(ctx, ExperimentRequest{
		Name:        experimentName,
		DatasetName: datasetName,
		Evaluators:  DefaultEvaluators(),
		Metadata: map[string]interface{}{
			"namespace":      cfg.Namespace,
			"parser_backend": cfg.Parser,
			"chunking":       cfg.Chunking,
			"embedding":      cfg.Embedding,
			"rerank":         cfg.Rerank,
			"prompt_variant": cfg.Prompt,
			"k":              cfg.K,
		},
		Runs: runs,
	})
}

func (r *Runner) warnMissingTracingEnv() {
	for _, key := range tracingEnvKeys {
		if os.Getenv(key) == "" {
			r.log.Warn(fmt.Sprintf("%s is not set. Tracing/organization in LangSmith may be limited.", key))
		}
	}
}
