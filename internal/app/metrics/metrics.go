package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics, exposed by the demo server's /metrics endpoint.
var (
	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitqa_embedding_requests_total",
		Help: "Embedding batches sent to the provider, by provider name and outcome.",
	}, []string{"provider", "status"})

	RetrievalDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fitqa_retrieval_duration_seconds",
		Help:    "Wall time of one retrieve call (embed query + store search).",
		Buckets: prometheus.DefBuckets,
	})

	SegmentsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitqa_segments_ingested_total",
		Help: "Segments written to a store by ingestion runs.",
	})

	SynthesisFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitqa_synthesis_failures_total",
		Help: "Answer synthesis calls that returned an error.",
	})
)
