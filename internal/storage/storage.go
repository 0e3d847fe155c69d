package storage

import (
	"context"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// Store runs hybrid (keyword + vector) queries against the portfolio and price list collections.
// Implementations never create collections or tables; the layout is expected to exist.
type Store interface {
	// Ready reports whether the backend can currently serve queries
	Ready(ctx context.Context) bool
	// Hybrid returns records ranked by blended score, highest first
	Hybrid(ctx context.Context, q types.HybridQuery) ([]types.Record, error)
	Close() error
}
