package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, VectorQdrant, cfg.Vector.Backend)
	assert.Equal(t, "docsage_chunks", cfg.Vector.Collection)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 50, cfg.Chunker.Overlap)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"
cors_origins = ["http://localhost:3000"]

[vector]
backend = "memory"

[embedding]
provider = "ollama"
model = "all-minilm"

[chunker]
chunk_size = 200
overlap = 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, VectorMemory, cfg.Vector.Backend)
	assert.Equal(t, ProviderOllama, cfg.Embedding.Provider)
	assert.Equal(t, "all-minilm", cfg.Embedding.Model)
	assert.Equal(t, 200, cfg.Chunker.ChunkSize)

	// untouched sections keep their defaults
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"
`)
	t.Setenv("DOCSAGE_ADDR", ":7070")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("QDRANT_API_KEY", "qd-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr, "environment wins over the file")
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "qd-test", cfg.Vector.APIKey)
}

func TestLoadEnvDoesNotClobberExplicitKey(t *testing.T) {
	path := writeConfig(t, `
[llm]
provider = "openai"
api_key = "sk-from-file"
`)
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", cfg.LLM.APIKey)
	assert.Equal(t, "sk-from-env", cfg.Embedding.APIKey, "unset section still picks up the env key")
}

func TestLoadRejectsBadChunker(t *testing.T) {
	path := writeConfig(t, `
[chunker]
chunk_size = 100
overlap = 100
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, `
[vector]
backend = "pinecone"
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, `[server`)

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
