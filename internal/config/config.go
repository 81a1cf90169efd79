// Package config loads the application configuration: a yaml file for
// addresses and model names, environment variables for credentials.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"` // listen address, e.g. ":8080"
}

// MilvusConfig defines the Milvus connection and collection naming.
type MilvusConfig struct {
	Address        string `yaml:"address"`        // Milvus service address
	BaseCollection string `yaml:"baseCollection"` // collection name prefix; the embedding dimension is appended
}

// OpenAIConfig defines the chat model settings.
type OpenAIConfig struct {
	ChatModel   string  `yaml:"chatModel"`   // model for generation and the agent loop
	Temperature float32 `yaml:"temperature"` // sampling temperature for generation
}

// EndpointsConfig defines optional external service endpoints.
type EndpointsConfig struct {
	Docling string `yaml:"docling"` // docling-serve base URL, required for the docling parser
	BGE     string `yaml:"bge"`     // bge rerank endpoint base URL, required for the bge strategy
}

// LoggerConfig defines the logger settings.
type LoggerConfig struct {
	Level string `yaml:"level"` // minimum level, e.g. "info", "debug"
}

// RegistryConfig defines the namespace registry file location.
type RegistryConfig struct {
	Path string `yaml:"path"` // namespace registry json file
}

// AppConfig is the root of the yaml configuration file.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Milvus    MilvusConfig    `yaml:"milvus"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Logger    LoggerConfig    `yaml:"logger"`
	Registry  RegistryConfig  `yaml:"registry"`
}

// Credentials holds secrets read from the environment, never from yaml.
type Credentials struct {
	OpenAIAPIKey    string // required
	CohereAPIKey    string // required only for the cohere rerank strategy
	LangSmithAPIKey string // required only for evaluation runs
}

// LoadConfig reads and parses the yaml configuration file, filling defaults
// for omitted fields.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Milvus.Address == "" {
		c.Milvus.Address = "localhost:19530"
	}
	if c.Milvus.BaseCollection == "" {
		c.Milvus.BaseCollection = "resume_chunks"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Registry.Path == "" {
		c.Registry.Path = "namespaces.json"
	}
}

// LoadCredentials reads secrets from the environment after loading an
// optional .env file. Only the OpenAI key is required up front; strategy
// specific keys are checked where the strategy is selected.
func LoadCredentials() (*Credentials, error) {
	// A missing .env file is fine; the variables may come from the shell.
	_ = godotenv.Load()

	creds := &Credentials{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		CohereAPIKey:    os.Getenv("COHERE_API_KEY"),
		LangSmithAPIKey: os.Getenv("LANGSMITH_API_KEY"),
	}
	if creds.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return creds, nil
}
