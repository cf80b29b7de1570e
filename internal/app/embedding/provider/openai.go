package provider

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"

	"fitqa/internal/app/errors"
)

// openaiDimensions maps the embedding models we accept to their output width.
var openaiDimensions = map[string]int{
	"text-embedding-ada-002": 1536,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
}

// OpenAIProvider implements EmbeddingProvider using the OpenAI API
type OpenAIProvider struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewOpenAIProvider creates a new OpenAI embedding provider. An empty model
// selects text-embedding-ada-002.
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.ErrMissingAPIKey
	}
	if model == "" {
		model = "text-embedding-ada-002"
	}
	dimension, ok := openaiDimensions[model]
	if !ok {
		return nil, errors.Newf("unsupported OpenAI embedding model %q", model)
	}

	return &OpenAIProvider{
		client:    openai.NewClient(apiKey),
		model:     openai.EmbeddingModel(model),
		dimension: dimension,
	}, nil
}

// Embed generates embeddings for a batch of texts in one API call.
func (o *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, errors.New("empty text provided")
		}
	}

	request := openai.EmbeddingRequest{
		Model: o.model,
		Input: texts,
	}

	response, err := o.client.CreateEmbeddings(ctx, request)
	if err != nil {
		return nil, errors.WrapSentinel(errors.ErrEmbeddingFailed, err)
	}

	if len(response.Data) != len(texts) {
		return nil, errors.Newf("expected %d embeddings, got %d", len(texts), len(response.Data))
	}

	// The API reports an index per datum; honor it rather than assuming order.
	vectors := make([][]float32, len(texts))
	for _, datum := range response.Data {
		if datum.Index < 0 || datum.Index >= len(vectors) {
			return nil, errors.Newf("embedding index %d out of range", datum.Index)
		}
		vectors[datum.Index] = datum.Embedding
	}
	return vectors, nil
}

// Info returns information about the OpenAI provider
func (o *OpenAIProvider) Info() ProviderInfo {
	return ProviderInfo{
		Name:      "openai",
		Model:     string(o.model),
		Dimension: o.dimension,
	}
}
