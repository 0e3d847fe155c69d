// internal/service/service.go
package service

import (
	"context"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// KnowledgeBase searches the two collections. Implementations are chosen at startup:
// a direct store connection or the remote search gateway.
//
// When the backend cannot serve a search, implementations return a nil slice and an
// error wrapping types.ErrUnavailable.
type KnowledgeBase interface {
	SearchProjects(ctx context.Context, query string) ([]types.Project, error)
	SearchServices(ctx context.Context, query string) ([]types.Service, error)
}

// Service contains the business logic for search operations
type Service struct {
	kb KnowledgeBase
}

// New creates a new Service
func New(kb KnowledgeBase) *Service {
	return &Service{kb: kb}
}

// SearchProjects finds portfolio projects matching query
func (s *Service) SearchProjects(ctx context.Context, query string) ([]types.Project, error) {
	return s.kb.SearchProjects(ctx, query)
}

// SearchServices finds price list entries matching query
func (s *Service) SearchServices(ctx context.Context, query string) ([]types.Service, error) {
	return s.kb.SearchServices(ctx, query)
}
