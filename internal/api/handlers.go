// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MereWhiplash/portfolio-search/internal/apitypes"
	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// Searcher runs raw hybrid searches. knowledge.Direct satisfies it.
type Searcher interface {
	Ready(ctx context.Context) bool
	Records(ctx context.Context, c types.Collection, query string, limit int, alpha float64) ([]types.Record, error)
}

// Handlers holds HTTP handler dependencies
type Handlers struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewHandlers creates new API handlers. A nil logger uses slog.Default().
func NewHandlers(searcher Searcher, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{searcher: searcher, logger: logger}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, apitypes.ErrorResponse{Error: msg})
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if !h.searcher.Ready(r.Context()) {
		h.respondJSON(w, http.StatusServiceUnavailable, apitypes.HealthResponse{Status: "unavailable"})
		return
	}
	h.respondJSON(w, http.StatusOK, apitypes.HealthResponse{Status: "ok"})
}

// SearchProjects handles POST /search/projects
func (h *Handlers) SearchProjects(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, types.Projects)
}

// SearchPrices handles POST /search/prices
func (h *Handlers) SearchPrices(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, types.Services)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request, c types.Collection) {
	var req apitypes.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = c.Limit
	}

	alpha := types.Alpha
	if req.Alpha != nil && *req.Alpha >= 0 && *req.Alpha <= 1 {
		alpha = *req.Alpha
	}

	records, err := h.searcher.Records(r.Context(), c, req.Query, limit, alpha)
	if err != nil {
		if errors.Is(err, types.ErrUnavailable) {
			h.respondError(w, http.StatusServiceUnavailable, types.ErrUnavailable.Error())
			return
		}
		h.logger.Error("search failed", "collection", c.Name, "error", err)
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	results := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		results = append(results, rec.Fields)
	}

	h.respondJSON(w, http.StatusOK, apitypes.SearchResponse{Results: results})
}
