package eval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
	"resumerag/internal/rag/service"
	"resumerag/internal/rag/storages/vectorstore"
	"resumerag/pkg/logger"
)

func TestLoadGold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gold.yaml")
	content := `qa:
  - question: "How many years of React experience does Jane have?"
    answer: "5 years"
  - question: "Where did Jane study?"
    answer: "MIT"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	gold, err := LoadGold(path)
	require.NoError(t, err)
	require.Len(t, gold, 2)
	assert.Equal(t, "How many years of React experience does Jane have?", gold[0].Question)
	assert.Equal(t, "5 years", gold[0].Answer)
	assert.Equal(t, "MIT", gold[1].Answer)
}

func TestLoadGoldMissingFile(t *testing.T) {
	_, err := LoadGold(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadGoldEmptyQuestion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gold.yaml")
	require.NoError(t, os.WriteFile(path, []byte("qa:\n  - answer: \"orphan\"\n"), 0o644))

	_, err := LoadGold(path)
	assert.Error(t, err)
}

type fakePlatform struct {
	datasets    map[string][]GoldExample
	experiments []ExperimentRequest
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{datasets: make(map[string][]GoldExample)}
}

func (p *fakePlatform) EnsureDataset(ctx context.Context, name, description string, examples []GoldExample) error {
	known := make(map[string]bool)
	for _, ex := range p.datasets[name] {
		known[ex.Question] = true
	}
	for _, ex := range examples {
		if !known[ex.Question] {
			p.datasets[name] = append(p.datasets[name], ex)
		}
	}
	return nil
}

func (p *fakePlatform) SubmitExperiment(ctx context.Context, req ExperimentRequest) (*Experiment, error) {
	p.experiments = append(p.experiments, req)
	return &Experiment{ID: "exp-1", Name: req.Name}, nil
}

type evalParser struct{}

func (evalParser) Parse(ctx context.Context, fileBytes []byte, fileExt string) (string, error) {
	return string(fileBytes), nil
}

type evalSplitter struct{}

func (evalSplitter) Split(ctx context.Context, text string) ([]*schema.Document, error) {
	var docs []*schema.Document
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		docs = append(docs, &schema.Document{ID: fmt.Sprintf("c%d", i), Content: line})
	}
	return docs, nil
}

type evalEmbedder struct{}

func (evalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 4)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := 0
		for _, r := range word {
			h = (h*7 + int(r)) % len(vec)
		}
		vec[h]++
	}
	return vec, nil
}

func (e evalEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

type evalLLM struct{}

func (evalLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return "Jane has 5 years of React experience.", nil
}

func evalService(t *testing.T) *service.Service {
	t.Helper()
	store := vectorstore.NewMemoryStore()
	return service.New(service.Dependencies{
		Log: logger.New("eval-test"),
		ParserFor: func(backend string) (interfaces.Parser, error) {
			return evalParser{}, nil
		},
		SplitterFor: func(method string) (interfaces.Splitter, error) {
			return evalSplitter{}, nil
		},
		EmbedderFor: func(model string) (interfaces.EmbeddingModel, error) {
			return evalEmbedder{}, nil
		},
		StoreFor: func(ctx context.Context, model string) (interfaces.VectorStore, error) {
			return store, nil
		},
		RerankerFor: func(tag string) (interfaces.Reranker, error) {
			return nil, fmt.Errorf("no reranker configured for %q", tag)
		},
		LLM: evalLLM{},
	})
}

func writeEvalFixtures(t *testing.T) (resumePath, goldPath string) {
	t.Helper()
	dir := t.TempDir()
	resumePath = filepath.Join(dir, "jane_doe.txt")
	require.NoError(t, os.WriteFile(resumePath, []byte("Jane Doe has 5 years of React experience.\nJane studied at MIT."), 0o644))
	goldPath = filepath.Join(dir, "gold.yaml")
	gold := `qa:
  - question: "How many years of React experience does Jane have?"
    answer: "5 years"
  - question: "Where did Jane study?"
    answer: "MIT"
`
	require.NoError(t, os.WriteFile(goldPath, []byte(gold), 0o644))
	return resumePath, goldPath
}

func TestRunnerRun(t *testing.T) {
	resumePath, goldPath := writeEvalFixtures(t)
	platform := newFakePlatform()
	runner := NewRunner(evalService(t), platform, logger.New("eval-test"))

	cfg := schema.PipelineConfig{Namespace: "eval_ns"}
	experiment, err := runner.Run(context.Background(), resumePath, goldPath, cfg, "smoke")
	require.NoError(t, err)
	assert.Equal(t, "manual::jane_doe::smoke", experiment.Name)

	assert.Len(t, platform.datasets["Resume-QA::jane_doe"], 2)

	require.Len(t, platform.experiments, 1)
	req := platform.experiments[0]
	assert.Equal(t, "Resume-QA::jane_doe", req.DatasetName)
	assert.Equal(t, DefaultEvaluators(), req.Evaluators)
	require.Len(t, req.Runs, 2)
	for _, run := range req.Runs {
		assert.Equal(t, "Jane has 5 years of React experience.", run.Answer)
		assert.NotEmpty(t, run.Context)
	}
	assert.Equal(t, "eval_ns", req.Metadata["namespace"])
}

func TestRunnerDefaultLabel(t *testing.T) {
	resumePath, goldPath := writeEvalFixtures(t)
	platform := newFakePlatform()
	runner := NewRunner(evalService(t), platform, logger.New("eval-test"))

	cfg := schema.PipelineConfig{Namespace: "eval_ns"}
	experiment, err := runner.Run(context.Background(), resumePath, goldPath, cfg, "")
	require.NoError(t, err)
	assert.Equal(t,
		"manual::jane_doe::baseline-recursive-text-embedding-3-small-none-baseline",
		experiment.Name)
}

func TestRunnerDatasetAppendOnlyMissing(t *testing.T) {
	resumePath, goldPath := writeEvalFixtures(t)
	platform := newFakePlatform()
	runner := NewRunner(evalService(t), platform, logger.New("eval-test"))

	cfg := schema.PipelineConfig{Namespace: "eval_ns"}
	_, err := runner.Run(context.Background(), resumePath, goldPath, cfg, "first")
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), resumePath, goldPath, cfg, "second")
	require.NoError(t, err)

	assert.Len(t, platform.datasets["Resume-QA::jane_doe"], 2, "re-running must not duplicate examples")
}

func TestRunnerMissingResume(t *testing.T) {
	_, goldPath := writeEvalFixtures(t)
	platform := newFakePlatform()
	runner := NewRunner(evalService(t), platform, logger.New("eval-test"))

	_, err := runner.Run(context.Background(), "/nope/missing.pdf", goldPath, schema.PipelineConfig{Namespace: "ns"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume not found")
}
