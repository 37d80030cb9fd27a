package llm

import (
	"context"
	"errors"

	"github.com/cloo-solutions/lexora/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is used when no chat model is configured. Local
	// OpenAI-compatible servers generally ignore the model name.
	DefaultModel = openai.GPT4oMini

	generationTemperature = 0.1
	generationMaxTokens   = 1000
)

// chatAPI defines the upstream calls used for generation.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Config configures the OpenAI-compatible chat client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIGenerator implements Generator against an OpenAI-compatible chat
// completions endpoint (OpenAI proper, LM Studio, Ollama, ...).
type OpenAIGenerator struct {
	api   chatAPI
	model string
}

// NewOpenAIGenerator creates a generator with explicit configuration.
func NewOpenAIGenerator(cfg Config) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIGenerator{
		api:   openai.NewClientWithConfig(clientCfg),
		model: model,
	}
}

// Generate produces answer text for the given prompts.
func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return "", domain.ErrModelUnavailable.WithCause(err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.ErrModelUnavailable.WithCause(errors.New("no completion choices returned"))
	}

	return resp.Choices[0].Message.Content, nil
}

// Ping checks the models endpoint, mirroring how local OpenAI-compatible
// servers advertise readiness.
func (g *OpenAIGenerator) Ping(ctx context.Context) error {
	if _, err := g.api.ListModels(ctx); err != nil {
		return domain.ErrModelUnavailable.WithCause(err)
	}
	return nil
}
