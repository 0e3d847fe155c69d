// internal/embedder/embedder.go
package embedder

import (
	"context"
	"fmt"
	"time"
)

// DefaultTimeout bounds every embedding request
const DefaultTimeout = 10 * time.Second

// Embedder generates vector embeddings for text
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds embedder configuration
type Config struct {
	Provider string // "transformers", "ollama", "openai"
	URL      string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// New creates an Embedder implementation based on config
func New(cfg Config) (Embedder, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Provider {
	case "", "transformers":
		if cfg.URL == "" {
			return nil, fmt.Errorf("transformers URL is required")
		}
		return NewTransformers(cfg.URL, cfg.Timeout), nil

	case "ollama":
		if cfg.URL == "" {
			return nil, fmt.Errorf("ollama URL is required")
		}
		if cfg.Model == "" {
			cfg.Model = "nomic-embed-text"
		}
		return NewOllama(cfg.URL, cfg.Model, cfg.Timeout), nil

	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.URL)

	default:
		return nil, fmt.Errorf("unknown embedder provider: %s", cfg.Provider)
	}
}
