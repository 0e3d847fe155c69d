package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MereWhiplash/portfolio-search/internal/api"
	"github.com/MereWhiplash/portfolio-search/internal/apitypes"
	"github.com/MereWhiplash/portfolio-search/internal/types"
)

type searchCall struct {
	collection string
	query      string
	limit      int
	alpha      float64
}

// mockSearcher implements api.Searcher for testing
type mockSearcher struct {
	ready   bool
	records []types.Record
	err     error
	calls   []searchCall
}

func (m *mockSearcher) Ready(ctx context.Context) bool {
	return m.ready
}

func (m *mockSearcher) Records(ctx context.Context, c types.Collection, query string, limit int, alpha float64) ([]types.Record, error) {
	m.calls = append(m.calls, searchCall{collection: c.Name, query: query, limit: limit, alpha: alpha})
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func setupTestServer(searcher *mockSearcher) http.Handler {
	return api.NewRouter(api.NewHandlers(searcher, nil), api.RouterOptions{})
}

func post(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("POST", path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	r := setupTestServer(&mockSearcher{ready: true})

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var resp apitypes.HealthResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
}

func TestHealth_Unavailable(t *testing.T) {
	r := setupTestServer(&mockSearcher{ready: false})

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}

	var resp apitypes.HealthResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Status != "unavailable" {
		t.Errorf("expected status 'unavailable', got %q", resp.Status)
	}
}

func TestSearchProjects(t *testing.T) {
	searcher := &mockSearcher{
		ready: true,
		records: []types.Record{
			{ID: "1", Fields: map[string]any{"title": "ABC Store", "url": "http://abc.example"}, Score: 0.9},
		},
	}
	r := setupTestServer(searcher)

	rr := post(t, r, "/search/projects", apitypes.SearchRequest{Query: "магазин"})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp apitypes.SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0]["title"] != "ABC Store" {
		t.Errorf("unexpected results: %v", resp.Results)
	}

	call := searcher.calls[0]
	if call.collection != "PortfolioProject" || call.limit != 3 || call.alpha != 0.5 {
		t.Errorf("unexpected search call: %+v", call)
	}
}

func TestSearchPrices_LimitAndAlpha(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		alpha     *float64
		wantLimit int
		wantAlpha float64
	}{
		{"defaults", 0, nil, 5, 0.5},
		{"explicit", 2, floatPtr(0.8), 2, 0.8},
		{"negative limit", -1, floatPtr(0), 5, 0},
		{"alpha above range", 1, floatPtr(1.5), 1, 0.5},
		{"alpha below range", 1, floatPtr(-0.1), 1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &mockSearcher{ready: true}
			r := setupTestServer(searcher)

			rr := post(t, r, "/search/prices", apitypes.SearchRequest{Query: "hosting", Limit: tt.limit, Alpha: tt.alpha})
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rr.Code)
			}

			call := searcher.calls[0]
			if call.collection != "PriceList" {
				t.Errorf("expected PriceList, got %s", call.collection)
			}
			if call.limit != tt.wantLimit {
				t.Errorf("expected limit %d, got %d", tt.wantLimit, call.limit)
			}
			if call.alpha != tt.wantAlpha {
				t.Errorf("expected alpha %v, got %v", tt.wantAlpha, call.alpha)
			}

			var resp apitypes.SearchResponse
			json.NewDecoder(rr.Body).Decode(&resp)
			if resp.Results == nil {
				t.Error("expected empty results array, got null")
			}
		})
	}
}

func TestSearch_EmptyQueryIsSearched(t *testing.T) {
	searcher := &mockSearcher{ready: true}
	r := setupTestServer(searcher)

	rr := post(t, r, "/search/projects", apitypes.SearchRequest{})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if len(searcher.calls) != 1 || searcher.calls[0].query != "" {
		t.Errorf("expected one search with empty query, got %+v", searcher.calls)
	}
}

func TestSearch_InvalidBody(t *testing.T) {
	r := setupTestServer(&mockSearcher{ready: true})

	req := httptest.NewRequest("POST", "/search/prices", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestSearch_Unavailable(t *testing.T) {
	r := setupTestServer(&mockSearcher{err: fmt.Errorf("failed to search PriceList: %w", types.ErrUnavailable)})

	rr := post(t, r, "/search/prices", apitypes.SearchRequest{Query: "hosting"})
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}

	var resp apitypes.ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Error == "" {
		t.Error("expected error message")
	}
}

func TestSearch_InternalError(t *testing.T) {
	r := setupTestServer(&mockSearcher{err: errors.New("boom")})

	rr := post(t, r, "/search/projects", apitypes.SearchRequest{Query: "shop"})
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
}

func TestSearch_MethodNotAllowed(t *testing.T) {
	r := setupTestServer(&mockSearcher{ready: true})

	req := httptest.NewRequest("GET", "/search/projects", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rr.Code)
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
