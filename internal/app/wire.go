//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"fitqa/internal/app/etl"
	"fitqa/internal/app/llm"
	"fitqa/internal/app/retrieval"
	"fitqa/internal/app/storage/segment"
	"fitqa/internal/app/transcript"
	"fitqa/internal/config"
)

func provideSynthesizer(cfg *config.AppConfig, keys *config.APIKeys, logger *zap.Logger) (*llm.Synthesizer, error) {
	return llm.NewSynthesizer(keys.OpenAI, cfg.LLM.Instruction, logger)
}

func provideFetcher() transcript.Fetcher {
	return transcript.NewYouTubeFetcher()
}

func provideWindower(cfg *config.AppConfig) (*transcript.Windower, error) {
	return transcript.NewWindower(cfg.Windowing.WindowSize, cfg.Windowing.Overlap)
}

func provideProgress() *etl.ProgressManager {
	return etl.NewProgressManager(etl.ProgressConfig{Enabled: true})
}

// InitializeAskService builds the query-side service for an opened store.
func InitializeAskService(ctx context.Context, cfg *config.AppConfig, keys *config.APIKeys, store segment.Store, logger *zap.Logger) (*AskService, error) {
	wire.Build(BuildProvider, retrieval.NewRetriever, provideSynthesizer, NewAskService)
	return nil, nil
}

// InitializePipeline builds the ingestion pipeline.
func InitializePipeline(ctx context.Context, cfg *config.AppConfig, keys *config.APIKeys, logger *zap.Logger) (*etl.Pipeline, error) {
	wire.Build(BuildProvider, provideFetcher, provideWindower, provideProgress, etl.NewPipeline)
	return nil, nil
}
