package embedder

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAI implements Embedder using the OpenAI embeddings API
type OpenAI struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAI creates an OpenAI embedder. baseURL is optional and allows OpenAI-compatible servers.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	m := openai.SmallEmbedding3
	if model != "" {
		m = openai.EmbeddingModel(model)
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  m,
	}, nil
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: o.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("creating embeddings: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("no embeddings returned")
	}

	return resp.Data[0].Embedding, nil
}
