package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MereWhiplash/portfolio-search/internal/apitypes"
)

// RouterOptions configures the gateway middleware stack
type RouterOptions struct {
	RateLimit   int // requests per minute per IP, 0 disables
	CORSOrigins []string
	Timeout     time.Duration
}

// NewRouter mounts the gateway routes behind the standard middleware
func NewRouter(h *Handlers, opts RouterOptions) *chi.Mux {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))
	r.Use(RequestID)
	r.Use(MaxBodySize)

	if opts.RateLimit > 0 {
		limiter := NewRateLimiter(opts.RateLimit, time.Minute)
		r.Use(limiter.Middleware)
	}

	if len(opts.CORSOrigins) > 0 {
		r.Use(CORSMiddleware(opts.CORSOrigins))
	}

	r.Get(apitypes.PathHealth, h.Health)
	r.Post(apitypes.PathProjects, h.SearchProjects)
	r.Post(apitypes.PathPrices, h.SearchPrices)

	return r
}
