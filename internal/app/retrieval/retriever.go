package retrieval

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fitqa/internal/app/embedding/provider"
	"fitqa/internal/app/errors"
	"fitqa/internal/app/metrics"
	"fitqa/internal/app/model"
	"fitqa/internal/app/storage/segment"
)

// Retriever embeds a question and delegates ranking to the store. It performs
// no re-ranking of its own; the store's order is returned unchanged. Queries
// stay in the same embedding space as ingestion because both sides share one
// provider instance.
type Retriever struct {
	provider provider.EmbeddingProvider
	logger   *zap.Logger
}

// NewRetriever creates a retriever around the given embedding provider.
func NewRetriever(p provider.EmbeddingProvider, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{provider: p, logger: logger}
}

// Retrieve returns the top-k segments for a question, descending by score.
func (r *Retriever) Retrieve(ctx context.Context, question string, store segment.Store, k int) ([]model.ScoredSegment, error) {
	start := time.Now()

	vectors, err := r.provider.Embed(ctx, []string{question})
	if err != nil {
		metrics.EmbeddingRequests.WithLabelValues(r.provider.Info().Name, "error").Inc()
		return nil, errors.Wrap(err, "failed to embed question")
	}
	metrics.EmbeddingRequests.WithLabelValues(r.provider.Info().Name, "ok").Inc()

	results, err := store.Query(ctx, vectors[0], k)
	if err != nil {
		return nil, err
	}

	metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
	r.logger.Debug("retrieved segments",
		zap.Int("requested", k),
		zap.Int("returned", len(results)),
		zap.Duration("took", time.Since(start)))

	return results, nil
}
