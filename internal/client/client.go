// Package client implements the knowledge base over the remote search gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MereWhiplash/portfolio-search/internal/apitypes"
	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// DefaultTimeout bounds each gateway request
const DefaultTimeout = 10 * time.Second

// Client is an HTTP client for the search gateway.
// It sends the raw query; lemmatization and embedding happen behind the gateway.
type Client struct {
	baseURL    string
	http       *http.Client
	snippetLen int
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithSnippetLength sets the project description budget in runes
func WithSnippetLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.snippetLen = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a new gateway client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
		snippetLen: types.DefaultSnippetLength,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(req)
}

// search posts a query to path and returns the raw result objects.
// Every failure is reported as types.ErrUnavailable.
func (c *Client) search(ctx context.Context, path, query string, limit int) ([]map[string]any, error) {
	alpha := types.Alpha
	req := apitypes.SearchRequest{
		Query: query,
		Limit: limit,
		Alpha: &alpha,
	}

	results, err := c.post(ctx, path, req)
	if err != nil {
		c.logger.Error("gateway search failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", types.ErrUnavailable, err)
	}
	return results, nil
}

func (c *Client) post(ctx context.Context, path string, req apitypes.SearchRequest) ([]map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp apitypes.ErrorResponse
		json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("API error: status %d: %s", resp.StatusCode, errResp.Error)
	}

	var result apitypes.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Results, nil
}

// SearchProjects finds portfolio projects through the gateway
func (c *Client) SearchProjects(ctx context.Context, query string) ([]types.Project, error) {
	results, err := c.search(ctx, apitypes.PathProjects, query, types.Projects.Limit)
	if err != nil {
		return nil, err
	}

	projects := make([]types.Project, 0, len(results))
	for _, fields := range results {
		projects = append(projects, types.ProjectFromFields(fields, c.snippetLen))
	}
	return projects, nil
}

// SearchServices finds price list entries through the gateway
func (c *Client) SearchServices(ctx context.Context, query string) ([]types.Service, error) {
	results, err := c.search(ctx, apitypes.PathPrices, query, types.Services.Limit)
	if err != nil {
		return nil, err
	}

	services := make([]types.Service, 0, len(results))
	for _, fields := range results {
		services = append(services, types.ServiceFromFields(fields))
	}
	return services, nil
}
