// Package config loads the docsage configuration: TOML file,
// built-in defaults, environment overrides, in that order of
// precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/docsage/docsage/internal/core/domain"
)

// Provider names accepted for embedding and LLM backends.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Vector backend names.
const (
	VectorQdrant = "qdrant"
	VectorMemory = "memory"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Vector    VectorConfig    `toml:"vector"`
	Embedding ProviderConfig  `toml:"embedding"`
	LLM       ProviderConfig  `toml:"llm"`
	Chunker   ChunkerConfig   `toml:"chunker"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig configures the SQLite store.
type StorageConfig struct {
	// DataDir holds the database file. Empty means ~/.docsage/data.
	DataDir string `toml:"data_dir"`
}

// VectorConfig configures the vector index.
type VectorConfig struct {
	Backend    string `toml:"backend"`
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	Collection string `toml:"collection"`
}

// ProviderConfig configures one model provider (embedding or LLM).
type ProviderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	// Dimensions overrides the embedding size where the provider
	// supports it. Zero means the model default.
	Dimensions int `toml:"dimensions"`
}

// ChunkerConfig configures document chunking.
type ChunkerConfig struct {
	ChunkSize int `toml:"chunk_size"`
	Overlap   int `toml:"overlap"`
}

// RetrievalConfig configures the answer pipeline.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8000",
			CORSOrigins: []string{"*"},
		},
		Vector: VectorConfig{
			Backend:    VectorQdrant,
			URL:        "http://localhost:6333",
			Collection: "docsage_chunks",
		},
		Embedding: ProviderConfig{
			Provider: ProviderOpenAI,
		},
		LLM: ProviderConfig{
			Provider: ProviderOpenAI,
		},
		Chunker: ChunkerConfig{
			ChunkSize: 500,
			Overlap:   50,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.docsage/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docsage", "config.toml"), nil
}

// Load reads the configuration from path, applying defaults for
// anything the file omits and environment overrides on top. A missing
// file is not an error; the defaults and environment apply alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fine, run on defaults
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing config %s: %v", domain.ErrInvalidInput, path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers environment variables over the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCSAGE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("DOCSAGE_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("QDRANT_URL"); v != "" {
		c.Vector.URL = v
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		c.Vector.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.Embedding.Provider == ProviderOpenAI && c.Embedding.APIKey == "" {
			c.Embedding.APIKey = v
		}
		if c.LLM.Provider == ProviderOpenAI && c.LLM.APIKey == "" {
			c.LLM.APIKey = v
		}
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		if c.Embedding.Provider == ProviderOllama && c.Embedding.BaseURL == "" {
			c.Embedding.BaseURL = v
		}
		if c.LLM.Provider == ProviderOllama && c.LLM.BaseURL == "" {
			c.LLM.BaseURL = v
		}
	}
}

func (c *Config) validate() error {
	if c.Chunker.Overlap >= c.Chunker.ChunkSize {
		return fmt.Errorf("%w: chunker overlap %d must be less than chunk size %d",
			domain.ErrInvalidInput, c.Chunker.Overlap, c.Chunker.ChunkSize)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval top_k must be positive", domain.ErrInvalidInput)
	}
	switch c.Vector.Backend {
	case VectorQdrant, VectorMemory:
	default:
		return fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidInput, c.Vector.Backend)
	}
	for _, provider := range []string{c.Embedding.Provider, c.LLM.Provider} {
		switch provider {
		case ProviderOpenAI, ProviderOllama:
		default:
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
		}
	}
	return nil
}
