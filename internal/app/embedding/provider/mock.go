package provider

import (
	"context"
	"crypto/sha256"
	"strings"

	"fitqa/internal/app/errors"
)

// MockProvider is a deterministic offline provider for tests and dry runs.
// Equal texts always map to equal vectors, so self-retrieval scores 1.0.
type MockProvider struct {
	dimension int
}

// NewMockProvider creates a new mock provider with the specified dimension
func NewMockProvider(dimension int) *MockProvider {
	return &MockProvider{dimension: dimension}
}

// Embed generates deterministic embeddings based on SHA-256 of each text.
func (m *MockProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, errors.New("empty text provided")
		}

		hash := sha256.Sum256([]byte(text))
		embedding := make([]float32, m.dimension)

		// Spread hash bytes across the vector in range [-1, 1]
		for j := 0; j < m.dimension; j++ {
			byteIndex := j % len(hash)
			embedding[j] = (float32(hash[byteIndex])/255.0)*2 - 1
		}
		vectors[i] = embedding
	}
	return vectors, nil
}

// Info returns mock provider information
func (m *MockProvider) Info() ProviderInfo {
	return ProviderInfo{
		Name:      "mock",
		Model:     "mock-model",
		Dimension: m.dimension,
	}
}
