//go:build !cgo

package storage

import (
	"context"
	"fmt"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// SQLite is a stub for non-CGO builds
type SQLite struct{}

var errNoCGO = fmt.Errorf("SQLite storage requires CGO (build with CGO_ENABLED=1)")

// NewSQLite returns an error in non-CGO builds
func NewSQLite(path string) (*SQLite, error) {
	return nil, errNoCGO
}

func (s *SQLite) Ready(ctx context.Context) bool {
	return false
}

func (s *SQLite) Hybrid(ctx context.Context, q types.HybridQuery) ([]types.Record, error) {
	return nil, errNoCGO
}

func (s *SQLite) Close() error {
	return nil
}
