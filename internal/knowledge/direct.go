// Package knowledge connects the search use case directly to a hybrid store.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MereWhiplash/portfolio-search/internal/query"
	"github.com/MereWhiplash/portfolio-search/internal/storage"
	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// DefaultQueryTimeout bounds a single hybrid query against the store
const DefaultQueryTimeout = 10 * time.Second

// Direct answers searches by preparing the query locally and querying the store
type Direct struct {
	store      storage.Store
	preparer   *query.Preparer
	snippetLen int
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Direct adapter
type Option func(*Direct)

// WithSnippetLength sets the project description budget in runes
func WithSnippetLength(n int) Option {
	return func(d *Direct) {
		if n > 0 {
			d.snippetLen = n
		}
	}
}

// WithQueryTimeout bounds each store query
func WithQueryTimeout(timeout time.Duration) Option {
	return func(d *Direct) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Direct) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDirect creates a direct store adapter
func NewDirect(store storage.Store, preparer *query.Preparer, opts ...Option) *Direct {
	d := &Direct{
		store:      store,
		preparer:   preparer,
		snippetLen: types.DefaultSnippetLength,
		timeout:    DefaultQueryTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Ready reports whether the underlying store can serve queries.
// The check is bounded by the query timeout.
func (d *Direct) Ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.store.Ready(ctx)
}

// Records runs one hybrid search and returns raw store hits.
// Any store failure is reported as types.ErrUnavailable.
func (d *Direct) Records(ctx context.Context, c types.Collection, q string, limit int, alpha float64) ([]types.Record, error) {
	if !d.Ready(ctx) {
		d.logger.Warn("store not ready", "collection", c.Name)
		return nil, types.ErrUnavailable
	}

	prepared := d.preparer.Prepare(ctx, q)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	records, err := d.store.Hybrid(ctx, types.HybridQuery{
		Collection: c,
		Text:       prepared.Lemmatized,
		Vector:     prepared.Vector,
		Limit:      limit,
		Alpha:      alpha,
	})
	if err != nil {
		d.logger.Error("hybrid search failed", "collection", c.Name, "error", err)
		return nil, fmt.Errorf("failed to search %s: %w: %v", c.Name, types.ErrUnavailable, err)
	}

	d.logger.Debug("hybrid search",
		"collection", c.Name,
		"lemmatized", prepared.Lemmatized,
		"vector", prepared.Vector != nil,
		"results", len(records))

	return records, nil
}

func (d *Direct) SearchProjects(ctx context.Context, q string) ([]types.Project, error) {
	records, err := d.Records(ctx, types.Projects, q, types.Projects.Limit, types.Alpha)
	if err != nil {
		return nil, err
	}

	projects := make([]types.Project, 0, len(records))
	for _, r := range records {
		projects = append(projects, types.ProjectFromFields(r.Fields, d.snippetLen))
	}
	return projects, nil
}

func (d *Direct) SearchServices(ctx context.Context, q string) ([]types.Service, error) {
	records, err := d.Records(ctx, types.Services, q, types.Services.Limit, types.Alpha)
	if err != nil {
		return nil, err
	}

	services := make([]types.Service, 0, len(records))
	for _, r := range records {
		services = append(services, types.ServiceFromFields(r.Fields))
	}
	return services, nil
}
