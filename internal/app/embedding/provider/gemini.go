package provider

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"fitqa/internal/app/errors"
)

var geminiDimensions = map[string]int{
	"text-embedding-004":   768,
	"gemini-embedding-001": 3072,
}

// GeminiProvider implements EmbeddingProvider using the Gemini API
type GeminiProvider struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGeminiProvider creates a new Gemini embedding provider. An empty model
// selects text-embedding-004.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.ErrMissingAPIKey
	}
	if model == "" {
		model = "text-embedding-004"
	}
	dimension, ok := geminiDimensions[model]
	if !ok {
		return nil, errors.Newf("unsupported Gemini embedding model %q", model)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Gemini client")
	}

	return &GeminiProvider{
		client:    client,
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed generates embeddings for a batch of texts in one API call.
func (g *GeminiProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, errors.New("empty text provided")
		}
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	response, err := g.client.Models.EmbedContent(ctx, g.model, contents, &genai.EmbedContentConfig{})
	if err != nil {
		return nil, errors.WrapSentinel(errors.ErrEmbeddingFailed, err)
	}

	if len(response.Embeddings) != len(texts) {
		return nil, errors.Newf("expected %d embeddings, got %d", len(texts), len(response.Embeddings))
	}

	vectors := make([][]float32, len(response.Embeddings))
	for i, emb := range response.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// Info returns information about the Gemini provider
func (g *GeminiProvider) Info() ProviderInfo {
	return ProviderInfo{
		Name:      "gemini",
		Model:     g.model,
		Dimension: g.dimension,
	}
}
