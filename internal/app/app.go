package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fitqa/internal/app/embedding/provider"
	"fitqa/internal/app/errors"
	"fitqa/internal/app/llm"
	"fitqa/internal/app/model"
	"fitqa/internal/app/retrieval"
	"fitqa/internal/app/storage/segment"
	"fitqa/internal/config"
)

const embeddingCacheTTL = 24 * time.Hour

// AskService answers one question against one opened store: retrieve top-k
// segments, format them, synthesize. Query-time failures are fatal to that
// query and surface as errors, never as placeholder answers.
type AskService struct {
	store       segment.Store
	retriever   *retrieval.Retriever
	synthesizer *llm.Synthesizer
	topK        int
	model       string
	temperature float64
	logger      *zap.Logger
}

// NewAskService wires a query service from its collaborators.
func NewAskService(cfg *config.AppConfig, store segment.Store, retriever *retrieval.Retriever, synthesizer *llm.Synthesizer, logger *zap.Logger) *AskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AskService{
		store:       store,
		retriever:   retriever,
		synthesizer: synthesizer,
		topK:        cfg.Query.TopK,
		model:       cfg.LLM.Model,
		temperature: cfg.LLM.Temperature,
		logger:      logger,
	}
}

// Ask answers with the configured defaults.
func (s *AskService) Ask(ctx context.Context, question string) (string, error) {
	return s.AskWith(ctx, question, s.topK, s.model, s.temperature)
}

// AskWith answers with explicit retrieval and synthesis parameters.
func (s *AskService) AskWith(ctx context.Context, question string, k int, modelName string, temperature float64) (string, error) {
	if k <= 0 {
		k = s.topK
	}
	if modelName == "" {
		modelName = s.model
	}
	if temperature < 0 {
		temperature = s.temperature
	}

	results, err := s.retriever.Retrieve(ctx, question, s.store, k)
	if err != nil {
		return "", err
	}

	return s.synthesizer.Answer(ctx, question, results, modelName, temperature)
}

// Retrieve exposes raw retrieval for callers that want segments, not answers.
func (s *AskService) Retrieve(ctx context.Context, question string, k int) ([]model.ScoredSegment, error) {
	if k <= 0 {
		k = s.topK
	}
	return s.retriever.Retrieve(ctx, question, s.store, k)
}

// Close releases the underlying store.
func (s *AskService) Close() error {
	return s.store.Close()
}

// BuildProvider constructs the configured embedding provider, optionally
// wrapped in the Redis cache. The instance is built once at process start and
// shared read-only by ingestion and retrieval.
func BuildProvider(ctx context.Context, cfg *config.AppConfig, keys *config.APIKeys) (provider.EmbeddingProvider, error) {
	var base provider.EmbeddingProvider
	var err error

	switch cfg.Embedding.Provider {
	case "openai", "":
		base, err = provider.NewOpenAIProvider(keys.OpenAI, cfg.Embedding.Model)
	case "gemini":
		base, err = provider.NewGeminiProvider(ctx, keys.Gemini, cfg.Embedding.Model)
	case "mock":
		base = provider.NewMockProvider(64)
	default:
		err = errors.Newf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Embedding.CacheAddr != "" {
		return provider.NewCachedProvider(base, cfg.Embedding.CacheAddr, embeddingCacheTTL), nil
	}
	return base, nil
}
