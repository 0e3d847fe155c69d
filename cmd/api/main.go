// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MereWhiplash/portfolio-search/internal/api"
	"github.com/MereWhiplash/portfolio-search/internal/app"
	"github.com/MereWhiplash/portfolio-search/internal/config"
	"github.com/MereWhiplash/portfolio-search/internal/logging"
)

func main() {
	// Server flags
	addr := flag.String("addr", ":8000", "Server address")
	configPath := flag.String("config", "", "Path to a YAML or TOML config file")

	// Rate limiting flags
	rateLimit := flag.Int("rate-limit", 100, "Requests per minute per IP (0 to disable)")

	// CORS flags
	corsOrigins := flag.String("cors-origins", "", "Comma-separated list of allowed CORS origins (empty to disable)")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// The gateway always talks to the store directly
	direct, cleanup, err := app.NewDirect(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize knowledge base", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var origins []string
	if *corsOrigins != "" {
		origins = strings.Split(*corsOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	r := api.NewRouter(api.NewHandlers(direct, logger), api.RouterOptions{
		RateLimit:   *rateLimit,
		CORSOrigins: origins,
		Timeout:     30 * time.Second,
	})

	// Create server
	srv := &http.Server{
		Addr:         *addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}

		close(done)
	}()

	// Start server
	logger.Info("starting search gateway", "addr", *addr, "driver", cfg.Store.Driver)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}
