package embedder

import (
	"context"
	"log/slog"
	"time"
)

// Soft wraps an Embedder so failures become an absent vector instead of an error
type Soft struct {
	emb     Embedder
	timeout time.Duration
	logger  *slog.Logger
}

// NewSoft creates a fail-soft embedder. A nil logger uses slog.Default().
func NewSoft(emb Embedder, timeout time.Duration, logger *slog.Logger) *Soft {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Soft{emb: emb, timeout: timeout, logger: logger}
}

// Vector returns the embedding for text, or nil when the embedder is unavailable
func (s *Soft) Vector(ctx context.Context, text string) []float32 {
	if s == nil || s.emb == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vec, err := s.emb.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("embedding unavailable, falling back to keyword search", "error", err)
		return nil
	}
	return vec
}
