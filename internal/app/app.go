// Package app wires configuration into the knowledge base adapters and MCP server shared by the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MereWhiplash/portfolio-search/internal/client"
	"github.com/MereWhiplash/portfolio-search/internal/config"
	"github.com/MereWhiplash/portfolio-search/internal/embedder"
	"github.com/MereWhiplash/portfolio-search/internal/knowledge"
	"github.com/MereWhiplash/portfolio-search/internal/lemma"
	"github.com/MereWhiplash/portfolio-search/internal/query"
	"github.com/MereWhiplash/portfolio-search/internal/service"
	"github.com/MereWhiplash/portfolio-search/internal/storage"
	"github.com/MereWhiplash/portfolio-search/internal/tools"
)

// Name is the MCP implementation name
const Name = "portfolio-search"

// StorageConfig maps the store section of cfg to the storage factory config
func StorageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Driver:          cfg.Store.Driver,
		WeaviateHost:    cfg.WeaviateAddress(),
		WeaviateScheme:  cfg.Store.WeaviateScheme,
		WeaviateAPIKey:  cfg.Store.WeaviateAPIKey,
		SQLitePath:      cfg.Store.SQLitePath,
		PostgresDSN:     cfg.Store.PostgresDSN,
		MongoDBURI:      cfg.Store.MongoDBURI,
		MongoDBDatabase: cfg.Store.MongoDBDatabase,
	}
}

// EmbedderConfig maps the embedder section of cfg to the embedder factory config
func EmbedderConfig(cfg *config.Config) embedder.Config {
	ec := embedder.Config{
		Provider: cfg.Embedder.Provider,
		Model:    cfg.Embedder.Model,
		APIKey:   cfg.Embedder.OpenAIAPIKey,
		Timeout:  cfg.EmbedderTimeoutDuration(),
	}
	switch cfg.Embedder.Provider {
	case "ollama":
		ec.URL = cfg.Embedder.OllamaURL
	case "transformers", "":
		ec.URL = cfg.Embedder.TransformersURL
	}
	return ec
}

// NewDirect builds the direct store adapter. The caller must call the returned
// function to release the store and the lemmatizer.
func NewDirect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*knowledge.Direct, func() error, error) {
	emb, err := embedder.New(EmbedderConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	lem, err := newLemmatizer(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.New(ctx, StorageConfig(cfg))
	if err != nil {
		closeLemmatizer(lem)
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	preparer := query.NewPreparer(lem, embedder.NewSoft(emb, cfg.EmbedderTimeoutDuration(), logger))

	direct := knowledge.NewDirect(store, preparer,
		knowledge.WithSnippetLength(cfg.Knowledge.SnippetLength),
		knowledge.WithQueryTimeout(cfg.QueryTimeoutDuration()),
		knowledge.WithLogger(logger),
	)

	cleanup := func() error {
		return errors.Join(store.Close(), closeLemmatizer(lem))
	}
	return direct, cleanup, nil
}

func closeLemmatizer(l lemma.Lemmatizer) error {
	if c, ok := l.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newLemmatizer(cfg *config.Config) (lemma.Lemmatizer, error) {
	l, err := lemma.New(lemma.Config{
		Backend:    cfg.Lemmatizer.Backend,
		MystemPath: cfg.Lemmatizer.MystemPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lemmatizer: %w", err)
	}
	return l, nil
}

// NewGateway builds the remote gateway adapter
func NewGateway(cfg *config.Config, logger *slog.Logger) *client.Client {
	return client.New(cfg.Knowledge.GatewayURL,
		client.WithTimeout(cfg.QueryTimeoutDuration()),
		client.WithSnippetLength(cfg.Knowledge.SnippetLength),
		client.WithLogger(logger),
	)
}

// NewKnowledgeBase selects the adapter named by cfg.Knowledge.Backend.
// The returned close function releases the store and lemmatizer, if any.
func NewKnowledgeBase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.KnowledgeBase, func() error, error) {
	switch cfg.Knowledge.Backend {
	case config.BackendGateway:
		logger.Info("using search gateway", "url", cfg.Knowledge.GatewayURL)
		return NewGateway(cfg, logger), func() error { return nil }, nil
	case config.BackendDirect:
		direct, cleanup, err := NewDirect(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using direct store", "driver", cfg.Store.Driver, "lemmatizer", cfg.Lemmatizer.Backend)
		return direct, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown knowledge backend: %s", cfg.Knowledge.Backend)
	}
}

// NewMCPServer creates an MCP server exposing the search tools over kb
func NewMCPServer(kb service.KnowledgeBase, version string, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: version,
	}, nil)

	tools.Register(server, service.New(kb), logger)
	return server
}

// ServeMCP runs server over stdio, or over streamable HTTP at addr, until ctx is done
func ServeMCP(ctx context.Context, server *mcp.Server, transport, addr string, logger *slog.Logger) error {
	switch transport {
	case "", "stdio":
		logger.Info("starting MCP server", "transport", "stdio")
		return server.Run(ctx, &mcp.StdioTransport{})

	case "http":
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return server
		}, nil)

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown error", "error", err)
			}
		}()

		logger.Info("starting MCP server", "transport", "http", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	default:
		return fmt.Errorf("unknown transport: %s", transport)
	}
}
