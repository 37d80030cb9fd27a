package embedding

import (
	"context"
	"errors"

	"github.com/cloo-solutions/lexora/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the OpenAI model used for generating embeddings
	DefaultModel = openai.AdaEmbeddingV2
	// DefaultDimensions is the expected dimension of embeddings from ada-002
	DefaultDimensions = 1536
)

// ErrEmptyText is returned when text is empty
var ErrEmptyText = errors.New("text cannot be empty")

// embeddingAPI defines the upstream call for embedding generation
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Config configures the OpenAI embedding provider.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      openai.EmbeddingModel
	Dimensions int
}

// OpenAIProvider implements Provider against an OpenAI-compatible
// embeddings endpoint.
type OpenAIProvider struct {
	api        embeddingAPI
	model      openai.EmbeddingModel
	dimensions int
}

// NewOpenAIProvider creates a provider with explicit configuration.
func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &OpenAIProvider{
		api:        openai.NewClientWithConfig(clientCfg),
		model:      model,
		dimensions: dimensions,
	}
}

// Dimension returns the fixed embedding dimension.
func (p *OpenAIProvider) Dimension() int {
	return p.dimensions
}

// Embed generates an embedding for the given text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	resp, err := p.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, domain.ErrEmbeddingFailure.WithCause(err)
	}

	if len(resp.Data) == 0 {
		return nil, domain.ErrEmbeddingFailure.WithCause(errors.New("no embedding data returned"))
	}

	vec := resp.Data[0].Embedding
	if len(vec) != p.dimensions {
		return nil, domain.ErrDimensionMismatch
	}

	return vec, nil
}
