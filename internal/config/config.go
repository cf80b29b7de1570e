package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the constants the service shipped with.
const (
	DefaultDistanceMetric = "cosine"
	DefaultQueryResults   = 5
	DefaultLLMModel       = "gpt-3.5-turbo-0125"
	DefaultLLMTemperature = 0.1
	DefaultStoreBackend   = "flat"
	DefaultEmbeddingModel = "text-embedding-ada-002"
	DefaultCollection     = "fitness_videos"
)

// DefaultInstruction is the system instruction handed to the answer model.
// It is configuration, not logic: only its placement in the request is code.
const DefaultInstruction = "Answer the user's question using the RELEVANT CONTEXT provided by the user, if possible. " +
	"If there is a CONTEXT that seems to answer the question, structure your answer around that context and return its TITLE and SOURCE. " +
	"If no CONTEXTs are relevant to the question, answer the question yourself and state that no relevant clips were found. " +
	"The format should be as follows:\n" +
	"User: ```What is muscle atrophy?```\n" +
	"AI: ```Muscle atrophy is the decrease in size and wasting of muscle tissue.\n" +
	"[TITLE] title from relevant CONTEXT\n" +
	"[SOURCE] url from relevant CONTEXT```"

// AppConfig is the YAML-backed application configuration.
type AppConfig struct {
	Store struct {
		Backend string `yaml:"backend"` // flat | indexed | postgres
		Path    string `yaml:"path"`
		Metric  string `yaml:"metric"`
	} `yaml:"store"`

	Windowing struct {
		WindowSize int `yaml:"window_size"` // 0 means one segment per transcript line
		Overlap    int `yaml:"overlap"`
	} `yaml:"windowing"`

	Embedding struct {
		Provider  string `yaml:"provider"` // openai | gemini | mock
		Model     string `yaml:"model"`
		CacheAddr string `yaml:"cache_addr"` // optional redis address, empty disables caching
	} `yaml:"embedding"`

	LLM struct {
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
		Instruction string  `yaml:"instruction"`
	} `yaml:"llm"`

	Query struct {
		TopK int `yaml:"top_k"`
	} `yaml:"query"`
}

// DefaultAppConfig returns a config populated with the shipped defaults.
func DefaultAppConfig() *AppConfig {
	cfg := &AppConfig{}
	cfg.Store.Backend = DefaultStoreBackend
	cfg.Store.Metric = DefaultDistanceMetric
	cfg.Embedding.Provider = "openai"
	cfg.Embedding.Model = DefaultEmbeddingModel
	cfg.LLM.Model = DefaultLLMModel
	cfg.LLM.Temperature = DefaultLLMTemperature
	cfg.LLM.Instruction = DefaultInstruction
	cfg.Query.TopK = DefaultQueryResults
	return cfg
}

// LoadAppConfig reads a YAML config file on top of the defaults.
// A missing file is not an error; the defaults stand.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Query.TopK <= 0 {
		cfg.Query.TopK = DefaultQueryResults
	}
	if cfg.LLM.Instruction == "" {
		cfg.LLM.Instruction = DefaultInstruction
	}
	return cfg, nil
}
