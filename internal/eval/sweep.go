package eval

import (
	"context"
	"fmt"
	"strings"

	"resumerag/internal/rag/schema"
	"resumerag/pkg/logger"
)

// SweepSpec selects the config values to cross. Empty slices default to a
// single-element slice holding the field's default, so a sweep over two knobs
// does not explode over the others.
type SweepSpec struct {
	Parsers    []string `yaml:"parsers"`
	Chunkings  []string `yaml:"chunkings"`
	Embeddings []string `yaml:"embeddings"`
	Reranks    []string `yaml:"reranks"`
	Prompts    []string `yaml:"prompts"`
	Ks         []int    `yaml:"ks"`
}

// SweepResult records one iteration's outcome.
type SweepResult struct {
	Config     schema.PipelineConfig
	Experiment *Experiment
	Err        error
}

// Sweep iterates the Cartesian product of the spec's values in-process,
// running one experiment per combination against the runner. Each
// combination ingests into its own namespace derived from the config values.
// One iteration's failure is recorded and the sweep continues.
type Sweep struct {
	runner *Runner
	log    *logger.Logger
}

// NewSweep creates a new Sweep.
func NewSweep(runner *Runner, log *logger.Logger) *Sweep {
	return &Sweep{runner: runner, log: log}
}

// Run executes every combination sequentially and returns all results in
// iteration order.
func (s *Sweep) Run(ctx context.Context, resumePath, goldPath string, spec SweepSpec) []SweepResult {
	spec.normalize()
	var results []SweepResult

	for _, parser := range spec.Parsers {
		for _, chunking := range spec.Chunkings {
			for _, embedding := range spec.Embeddings {
				for _, rerank := range spec.Reranks {
					for _, prompt := range spec.Prompts {
						for _, k := range spec.Ks {
							cfg := schema.PipelineConfig{
								Parser:    parser,
								Chunking:  chunking,
								Embedding: embedding,
								Rerank:    rerank,
								Prompt:    prompt,
								K:         k,
							}
							cfg.Namespace = sweepNamespace(cfg)
							results = append(results, s.runOne(ctx, resumePath, goldPath, cfg))
						}
					}
				}
			}
		}
	}

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	s.log.Info(fmt.Sprintf("Sweep finished: %d combinations, %d failed", len(results), failed))
	return results
}

func (s *Sweep) runOne(ctx context.Context, resumePath, goldPath string, cfg schema.PipelineConfig) SweepResult {
	label := fmt.Sprintf("%s-%s-%s-%s-%s-k%d", cfg.Parser, cfg.Chunking, cfg.Embedding, cfg.Rerank, cfg.Prompt, cfg.K)
	s.log.Info(fmt.Sprintf("Sweep iteration: %s", label))

	experiment, err := s.runner.Run(ctx, resumePath, goldPath, cfg, label)
	if err != nil {
		s.log.WithError(err).Error(fmt.Sprintf("Sweep iteration %s failed, continuing", label))
	}
	return SweepResult{Config: cfg, Experiment: experiment, Err: err}
}

// sweepNamespace derives a distinct namespace per ingest-affecting config so
// combinations never share or overwrite each other's vectors.
func sweepNamespace(cfg schema.PipelineConfig) string {
	model := strings.TrimPrefix(cfg.Embedding, "text-embedding-3-")
	return fmt.Sprintf("sweep_%s_%s_%s", cfg.Parser, cfg.Chunking, model)
}

func (sp *SweepSpec) normalize() {
	if len(sp.Parsers) == 0 {
		sp.Parsers = []string{schema.ParserBaseline}
	}
	if len(sp.Chunkings) == 0 {
		sp.Chunkings = []string{schema.ChunkingRecursive}
	}
	if len(sp.Embeddings) == 0 {
		sp.Embeddings = []string{schema.EmbeddingSmall}
	}
	if len(sp.Reranks) == 0 {
		sp.Reranks = []string{schema.RerankNone}
	}
	if len(sp.Prompts) == 0 {
		sp.Prompts = []string{schema.PromptBaseline}
	}
	if len(sp.Ks) == 0 {
		sp.Ks = []int{schema.DefaultTopK}
	}
}
