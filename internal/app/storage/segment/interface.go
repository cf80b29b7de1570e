package segment

import (
	"context"

	"fitqa/internal/app/model"
)

// Meta is the store's own description of the embedding space it holds. It is
// persisted at initialize time so reopening a store never requires the caller
// to restate the metric or dimension.
type Meta struct {
	Name      string `json:"name"`
	Metric    string `json:"metric"`
	Dimension int    `json:"dimension"`
	Provider  string `json:"provider"` // embedding model that produced the vectors
}

// Store owns the segments for one database path and answers similarity
// queries over them. All embeddings in one store share the same dimensionality
// and provider; mixing embedding spaces silently corrupts ranking.
type Store interface {
	// Add upserts segments keyed by segment id. Re-adding an existing id must
	// not duplicate it. Implementations chunk internally when a backend caps
	// the rows accepted per call.
	Add(ctx context.Context, segments []model.Segment) error

	// Query returns up to k nearest segments, descending by score, ties broken
	// by insertion order. An empty store yields an empty result, not an error.
	Query(ctx context.Context, queryEmbedding []float32, k int) ([]model.ScoredSegment, error)

	// Count returns the number of stored segments.
	Count(ctx context.Context) (int, error)

	// All returns every stored segment in insertion order.
	All(ctx context.Context) ([]model.Segment, error)

	// Meta returns the persisted store metadata.
	Meta() Meta

	// Close releases the underlying storage handle.
	Close() error
}
