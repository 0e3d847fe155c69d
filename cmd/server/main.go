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
	configPath := flag.String("config", "", "Path to a YAML or TOML config file")
	transport := flag.String("transport", "stdio", "MCP transport: stdio, http")
	addr := flag.String("addr", ":8090", "Listen address for the http transport")
	logLevel := flag.String("log-level", "", "Log level override: debug, info, warn, error")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("portfolio-search %s\n", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kb, closeKB, err := app.NewKnowledgeBase(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize knowledge base", "error", err)
		os.Exit(1)
	}
	defer closeKB()

	server := app.NewMCPServer(kb, version, logger)

	if err := app.ServeMCP(ctx, server, *transport, *addr, logger); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		closeKB()
		os.Exit(1)
	}
	logger.Info("shutting down")
}
