// internal/api/middleware_test.go
package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MereWhiplash/portfolio-search/internal/api"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID_Generated(t *testing.T) {
	var captured string
	handler := api.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = api.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/test", nil))

	if captured == "" {
		t.Fatal("expected generated request id in context")
	}
	if rr.Header().Get("X-Request-ID") != captured {
		t.Errorf("expected response header %q, got %q", captured, rr.Header().Get("X-Request-ID"))
	}
}

func TestRequestID_Propagated(t *testing.T) {
	var captured string
	handler := api.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = api.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "abc-123" {
		t.Errorf("expected 'abc-123', got %q", captured)
	}
}

func TestMaxBodySize(t *testing.T) {
	var readErr error
	handler := api.MaxBodySize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	body := strings.NewReader(strings.Repeat("x", api.MaxRequestBody+1))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/test", body))

	if readErr == nil {
		t.Error("expected error reading oversized body")
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := api.NewRateLimiter(2, time.Minute)
	handler := limiter.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request to be limited, got %d", codes[2])
	}

	// Other clients have their own bucket
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected other IP to pass, got %d", rr.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := api.CORSMiddleware([]string{"https://app.example"})(okHandler())

	req := httptest.NewRequest("OPTIONS", "/search/projects", nil)
	req.Header.Set("Origin", "https://app.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected preflight 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://app.example" {
		t.Errorf("expected allowed origin header, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS header for unlisted origin")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}
