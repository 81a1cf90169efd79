// Package app wires configuration and credentials into the concrete pipeline
// dependencies shared by the server, eval and sweep binaries.
package app

import (
	"context"
	"fmt"
	"sync"

	openai "github.com/meguminnnnnnnnn/go-openai"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/sirupsen/logrus"

	"resumerag/internal/agent"
	"resumerag/internal/config"
	"resumerag/internal/eval"
	"resumerag/internal/eval/langsmith"
	"resumerag/internal/namespace"
	"resumerag/internal/rag/embeddings"
	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/llms"
	"resumerag/internal/rag/parsers"
	"resumerag/internal/rag/rerankers"
	"resumerag/internal/rag/service"
	"resumerag/internal/rag/splitters"
	"resumerag/internal/rag/storages/vectorstore"
	"resumerag/pkg/logger"
)

// App holds the wired application components.
type App struct {
	Config   *config.AppConfig
	Log      *logger.Logger
	Service  *service.Service
	Registry *namespace.Registry
	Agent    *agent.Orchestrator

	creds  *config.Credentials
	openai *openai.Client

	mu     sync.Mutex
	milvus client.Client
	stores map[string]interfaces.VectorStore
}

// New loads configuration and credentials and wires the pipeline service.
// Milvus is dialed lazily on the first vector-store access so binaries that
// fail validation earlier never open a connection.
func New(configPath string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logger.Level, err)
	}
	logger.Init(level)

	a := &App{
		Config:   cfg,
		Log:      logger.New("app"),
		Registry: namespace.NewRegistry(cfg.Registry.Path),
		creds:    creds,
		openai:   openai.NewClientWithConfig(openai.DefaultConfig(creds.OpenAIAPIKey)),
		stores:   make(map[string]interfaces.VectorStore),
	}

	llm := llms.NewOpenAI(a.openai, cfg.OpenAI.ChatModel, cfg.OpenAI.Temperature)
	a.Service = service.New(service.Dependencies{
		Log: logger.New("service"),
		ParserFor: func(backend string) (interfaces.Parser, error) {
			return parsers.Get(backend, cfg.Endpoints.Docling)
		},
		SplitterFor: splitters.Get,
		EmbedderFor: a.embedderFor,
		StoreFor:    a.storeFor,
		RerankerFor: func(tag string) (interfaces.Reranker, error) {
			return rerankers.Get(tag, rerankers.Options{
				CohereAPIKey: creds.CohereAPIKey,
				BGEEndpoint:  cfg.Endpoints.BGE,
			})
		},
		LLM: llm,
	})

	a.Agent = agent.New(a.openai, cfg.OpenAI.ChatModel, a.Service, a.Registry, logger.New("agent"))
	return a, nil
}

// EvalRunner builds the evaluation runner. It requires the LangSmith API key.
func (a *App) EvalRunner() (*eval.Runner, error) {
	if a.creds.LangSmithAPIKey == "" {
		return nil, fmt.Errorf("LANGSMITH_API_KEY is not set")
	}
	platform := langsmith.NewClient(a.creds.LangSmithAPIKey)
	return eval.NewRunner(a.Service, platform, logger.New("eval")), nil
}

// Close releases the Milvus connection if one was opened.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.milvus != nil {
		_ = a.milvus.Close()
		a.milvus = nil
	}
}

func (a *App) embedderFor(model string) (interfaces.EmbeddingModel, error) {
	if _, err := embeddings.Dim(model); err != nil {
		return nil, err
	}
	return embeddings.NewOpenAIModel(a.openai, model), nil
}

// storeFor returns the vector store for the embedding model. Collections are
// per model dimension, so each model gets its own cached store.
func (a *App) storeFor(ctx context.Context, model string) (interfaces.VectorStore, error) {
	dim, err := embeddings.Dim(model)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if store, ok := a.stores[model]; ok {
		return store, nil
	}

	if a.milvus == nil {
		milvusClient, err := client.NewClient(ctx, client.Config{Address: a.Config.Milvus.Address})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Milvus at %s: %w", a.Config.Milvus.Address, err)
		}
		a.milvus = milvusClient
	}

	store, err := vectorstore.NewMilvusStore(ctx, a.milvus, a.Config.Milvus.BaseCollection, dim, logger.New("milvus"))
	if err != nil {
		return nil, err
	}
	a.stores[model] = store
	return store, nil
}
