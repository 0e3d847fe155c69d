// Package apitypes holds the search gateway wire types.
// It has no storage dependencies so the gateway client can import it without CGO.
package apitypes

// SearchRequest is the body of POST /search/projects and POST /search/prices.
// A zero Limit selects the collection default; a nil Alpha selects 0.5.
type SearchRequest struct {
	Query string   `json:"query"`
	Limit int      `json:"limit,omitempty"`
	Alpha *float64 `json:"alpha,omitempty"`
}

// SearchResponse carries raw store fields for each hit, best first
type SearchResponse struct {
	Results []map[string]any `json:"results"`
}

// ErrorResponse is the API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

const (
	PathProjects = "/search/projects"
	PathPrices   = "/search/prices"
	PathHealth   = "/health"
)
