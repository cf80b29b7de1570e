package provider

import "context"

// EmbeddingProvider defines the interface for all embedding providers.
// Ingestion and retrieval both route through the same provider instance so
// that query vectors live in the same embedding space as stored segments.
type EmbeddingProvider interface {
	// Embed generates one embedding vector per input text, order-preserving.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Info returns metadata about the provider
	Info() ProviderInfo
}

// ProviderInfo contains metadata about an embedding provider
type ProviderInfo struct {
	Name      string // Provider name (e.g., "openai", "gemini")
	Model     string // Model identifier (e.g., "text-embedding-ada-002")
	Dimension int    // Embedding dimension (e.g., 1536 for OpenAI, 768 for Gemini)
}
