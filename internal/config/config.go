// Package config loads service configuration from defaults, an optional YAML or TOML
// file, a .env file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	BackendDirect  = "direct"
	BackendGateway = "gateway"
)

type KnowledgeConfig struct {
	Backend       string `yaml:"backend" toml:"backend"` // "direct" or "gateway"
	GatewayURL    string `yaml:"gateway_url" toml:"gateway_url"`
	SnippetLength int    `yaml:"snippet_length" toml:"snippet_length"`
	QueryTimeout  int    `yaml:"query_timeout_seconds" toml:"query_timeout_seconds"`
}

type StoreConfig struct {
	Driver          string `yaml:"driver" toml:"driver"`
	WeaviateHost    string `yaml:"weaviate_host" toml:"weaviate_host"`
	WeaviatePort    int    `yaml:"weaviate_port" toml:"weaviate_port"`
	WeaviateScheme  string `yaml:"weaviate_scheme" toml:"weaviate_scheme"`
	WeaviateAPIKey  string `yaml:"weaviate_api_key" toml:"weaviate_api_key"`
	PostgresDSN     string `yaml:"postgres_dsn" toml:"postgres_dsn"`
	SQLitePath      string `yaml:"sqlite_path" toml:"sqlite_path"`
	MongoDBURI      string `yaml:"mongodb_uri" toml:"mongodb_uri"`
	MongoDBDatabase string `yaml:"mongodb_database" toml:"mongodb_database"`
}

type EmbedderConfig struct {
	Provider        string `yaml:"provider" toml:"provider"`
	TransformersURL string `yaml:"transformers_url" toml:"transformers_url"`
	OllamaURL       string `yaml:"ollama_url" toml:"ollama_url"`
	Model           string `yaml:"model" toml:"model"`
	OpenAIAPIKey    string `yaml:"openai_api_key" toml:"openai_api_key"`
	Timeout         int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

type LemmatizerConfig struct {
	Backend    string `yaml:"backend" toml:"backend"`
	MystemPath string `yaml:"mystem_path" toml:"mystem_path"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type Config struct {
	Knowledge  KnowledgeConfig  `yaml:"knowledge" toml:"knowledge"`
	Store      StoreConfig      `yaml:"store" toml:"store"`
	Embedder   EmbedderConfig   `yaml:"embedder" toml:"embedder"`
	Lemmatizer LemmatizerConfig `yaml:"lemmatizer" toml:"lemmatizer"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Knowledge: KnowledgeConfig{
			Backend:       BackendDirect,
			SnippetLength: 200,
			QueryTimeout:  10,
		},
		Store: StoreConfig{
			Driver:          "weaviate",
			WeaviateHost:    "localhost",
			WeaviatePort:    8080,
			WeaviateScheme:  "http",
			MongoDBDatabase: "portfolio",
		},
		Embedder: EmbedderConfig{
			Provider:        "transformers",
			TransformersURL: "http://localhost:8081/vectors",
			OllamaURL:       "http://localhost:11434",
			Timeout:         10,
		},
		Lemmatizer: LemmatizerConfig{
			Backend: "mystem",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config. path may be empty; .env in the working directory is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension: %s", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("KB_BACKEND", &c.Knowledge.Backend)
	str("SEARCH_GATEWAY_URL", &c.Knowledge.GatewayURL)
	if err := num("SNIPPET_LENGTH", &c.Knowledge.SnippetLength); err != nil {
		return err
	}

	str("STORE_DRIVER", &c.Store.Driver)
	str("WEAVIATE_HOST", &c.Store.WeaviateHost)
	if err := num("WEAVIATE_PORT", &c.Store.WeaviatePort); err != nil {
		return err
	}
	str("WEAVIATE_SCHEME", &c.Store.WeaviateScheme)
	str("WEAVIATE_API_KEY", &c.Store.WeaviateAPIKey)
	str("POSTGRES_DSN", &c.Store.PostgresDSN)
	str("SQLITE_PATH", &c.Store.SQLitePath)
	str("MONGODB_URI", &c.Store.MongoDBURI)
	str("MONGODB_DATABASE", &c.Store.MongoDBDatabase)

	str("EMBEDDER_PROVIDER", &c.Embedder.Provider)
	str("TRANSFORMERS_URL", &c.Embedder.TransformersURL)
	str("OLLAMA_URL", &c.Embedder.OllamaURL)
	str("EMBEDDING_MODEL", &c.Embedder.Model)
	str("OPENAI_API_KEY", &c.Embedder.OpenAIAPIKey)

	str("LEMMATIZER", &c.Lemmatizer.Backend)
	str("MYSTEM_PATH", &c.Lemmatizer.MystemPath)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	return nil
}

// Validate rejects unknown backends and out-of-range values
func (c *Config) Validate() error {
	switch c.Knowledge.Backend {
	case BackendDirect:
	case BackendGateway:
		if c.Knowledge.GatewayURL == "" {
			return fmt.Errorf("gateway backend requires a gateway URL")
		}
	default:
		return fmt.Errorf("unknown knowledge backend: %s", c.Knowledge.Backend)
	}

	if c.Knowledge.SnippetLength <= 0 {
		return fmt.Errorf("snippet length must be positive, got %d", c.Knowledge.SnippetLength)
	}

	switch c.Store.Driver {
	case "weaviate", "postgres", "sqlite", "mongodb":
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Store.Driver)
	}

	if c.Knowledge.QueryTimeout <= 0 || c.Embedder.Timeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}

	if c.Store.WeaviatePort < 0 || c.Store.WeaviatePort > 65535 {
		return fmt.Errorf("invalid weaviate port: %d", c.Store.WeaviatePort)
	}

	switch c.Embedder.Provider {
	case "transformers", "ollama", "openai":
	default:
		return fmt.Errorf("unknown embedder provider: %s", c.Embedder.Provider)
	}

	switch c.Lemmatizer.Backend {
	case "snowball", "mystem":
	default:
		return fmt.Errorf("unknown lemmatizer backend: %s", c.Lemmatizer.Backend)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.Log.Format)
	}

	return nil
}

// QueryTimeoutDuration bounds one store or gateway query
func (c *Config) QueryTimeoutDuration() time.Duration {
	return time.Duration(c.Knowledge.QueryTimeout) * time.Second
}

// EmbedderTimeoutDuration bounds one embedding request
func (c *Config) EmbedderTimeoutDuration() time.Duration {
	return time.Duration(c.Embedder.Timeout) * time.Second
}

// WeaviateAddress joins the Weaviate host and port
func (c *Config) WeaviateAddress() string {
	if c.Store.WeaviatePort == 0 || strings.Contains(c.Store.WeaviateHost, ":") {
		return c.Store.WeaviateHost
	}
	return fmt.Sprintf("%s:%d", c.Store.WeaviateHost, c.Store.WeaviatePort)
}
