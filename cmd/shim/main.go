// cmd/shim/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MereWhiplash/portfolio-search/internal/app"
	"github.com/MereWhiplash/portfolio-search/internal/config"
	"github.com/MereWhiplash/portfolio-search/internal/logging"
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	apiURL := flag.String("api-url", "", "Search gateway URL (or SEARCH_GATEWAY_URL)")
	configPath := flag.String("config", "", "Path to a YAML or TOML config file")
	transport := flag.String("transport", "stdio", "MCP transport: stdio, http")
	addr := flag.String("addr", ":8091", "Listen address for the http transport")
	flag.Parse()

	// Flag wins over config and environment
	if *apiURL != "" {
		os.Setenv("SEARCH_GATEWAY_URL", *apiURL)
	}
	os.Setenv("KB_BACKEND", config.BackendGateway)

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

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := app.NewMCPServer(app.NewGateway(cfg, logger), version, logger)

	logger.Info("forwarding searches", "gateway", cfg.Knowledge.GatewayURL)
	if err := app.ServeMCP(ctx, server, *transport, *addr, logger); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
