package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"fitqa/internal/app/errors"
	"fitqa/internal/app/metrics"
	"fitqa/internal/app/model"
)

// completionClient is the slice of the OpenAI client the synthesizer needs.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Synthesizer sends the instruction, the formatted retrieval context, and the
// question to a chat model and returns the reply verbatim. It never fabricates
// an answer on failure and never retries; retries belong to the caller.
type Synthesizer struct {
	client      completionClient
	instruction string
	logger      *zap.Logger
}

// NewSynthesizer creates a synthesizer talking to the OpenAI chat API.
func NewSynthesizer(apiKey, instruction string, logger *zap.Logger) (*Synthesizer, error) {
	if apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}
	return newSynthesizer(openai.NewClient(apiKey), instruction, logger), nil
}

func newSynthesizer(client completionClient, instruction string, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{client: client, instruction: instruction, logger: logger}
}

// Answer composes the three-turn request: the instruction as the system turn,
// the wrapped context as the first user turn, the raw question as the second.
func (s *Synthesizer) Answer(ctx context.Context, question string, results []model.ScoredSegment, modelName string, temperature float64) (string, error) {
	formattedContext := "RELEVANT CONTEXT:\n```" + FormatContext(results) + "```"

	request := openai.ChatCompletionRequest{
		Model:       modelName,
		Temperature: float32(temperature),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: s.instruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: formattedContext,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: question,
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	if err != nil {
		metrics.SynthesisFailures.Inc()
		return "", errors.WrapSentinel(errors.ErrSynthesisFailed, err)
	}
	if len(resp.Choices) == 0 {
		metrics.SynthesisFailures.Inc()
		return "", errors.WrapSentinel(errors.ErrSynthesisFailed, errors.New("no choices returned"))
	}

	s.logger.Debug("synthesized answer",
		zap.String("model", modelName),
		zap.Int("context_segments", len(results)))

	return resp.Choices[0].Message.Content, nil
}
