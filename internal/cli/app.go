package cli

import (
	"context"
	"fmt"

	ollamaembed "github.com/docsage/docsage/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docsage/docsage/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/docsage/docsage/internal/adapters/driven/llm/ollama"
	openaillm "github.com/docsage/docsage/internal/adapters/driven/llm/openai"
	"github.com/docsage/docsage/internal/adapters/driven/storage/sqlite"
	vecmemory "github.com/docsage/docsage/internal/adapters/driven/vector/memory"
	"github.com/docsage/docsage/internal/adapters/driven/vector/qdrant"
	"github.com/docsage/docsage/internal/chunker"
	"github.com/docsage/docsage/internal/config"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/services"
	"github.com/docsage/docsage/internal/extractor/pdf"
	"github.com/docsage/docsage/internal/logger"
)

// app wires the adapters and services for one command invocation.
type app struct {
	cfg         *config.Config
	store       *sqlite.Store
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	index       driven.VectorIndex
	ingest      *services.IngestService
	answers     *services.AnswerService
	maintenance *services.MaintenanceService
}

// buildApp constructs the full dependency graph from configuration.
// Order: config, store, embedder/LLM, vector index, services.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	a := &app{cfg: cfg, store: store}
	if err := a.buildProviders(); err != nil {
		store.Close()
		return nil, err
	}
	if err := a.buildIndex(ctx); err != nil {
		a.Close()
		return nil, err
	}

	ch, err := chunker.New(
		chunker.WithChunkSize(cfg.Chunker.ChunkSize),
		chunker.WithOverlap(cfg.Chunker.Overlap),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	registry := store.DocumentRegistry()
	a.ingest = services.NewIngestService(pdf.New(), ch, a.embedder, a.index, registry)
	a.answers = services.NewAnswerService(a.embedder, a.index, a.llm, store.ChatHistory(), cfg.Retrieval.TopK)
	a.maintenance = services.NewMaintenanceService(a.index, registry)

	logger.Debug("wired embedder=%s llm=%s vector=%s", a.embedder.ModelName(), a.llm.ModelName(), cfg.Vector.Backend)
	return a, nil
}

func (a *app) buildProviders() error {
	switch a.cfg.Embedding.Provider {
	case config.ProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     a.cfg.Embedding.APIKey,
			BaseURL:    a.cfg.Embedding.BaseURL,
			Model:      a.cfg.Embedding.Model,
			Dimensions: a.cfg.Embedding.Dimensions,
		})
		if err != nil {
			return fmt.Errorf("configuring embedding service: %w", err)
		}
		a.embedder = svc
	case config.ProviderOllama:
		a.embedder = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    a.cfg.Embedding.BaseURL,
			Model:      a.cfg.Embedding.Model,
			Dimensions: a.cfg.Embedding.Dimensions,
		})
	}

	switch a.cfg.LLM.Provider {
	case config.ProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  a.cfg.LLM.APIKey,
			BaseURL: a.cfg.LLM.BaseURL,
			Model:   a.cfg.LLM.Model,
		})
		if err != nil {
			return fmt.Errorf("configuring LLM service: %w", err)
		}
		a.llm = svc
	case config.ProviderOllama:
		a.llm = ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: a.cfg.LLM.BaseURL,
			Model:   a.cfg.LLM.Model,
		})
	}
	return nil
}

func (a *app) buildIndex(ctx context.Context) error {
	switch a.cfg.Vector.Backend {
	case config.VectorMemory:
		a.index = vecmemory.NewIndex()
	case config.VectorQdrant:
		index := qdrant.NewIndex(qdrant.Config{
			URL:        a.cfg.Vector.URL,
			APIKey:     a.cfg.Vector.APIKey,
			Collection: a.cfg.Vector.Collection,
		})
		if err := index.Init(ctx, a.embedder.Dimensions()); err != nil {
			return fmt.Errorf("initialising vector index: %w", err)
		}
		a.index = index
	}
	return nil
}

// Close releases everything the app holds, in reverse wiring order.
func (a *app) Close() {
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			logger.Warn("closing vector index: %v", err)
		}
	}
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			logger.Warn("closing LLM service: %v", err)
		}
	}
	if a.embedder != nil {
		if err := a.embedder.Close(); err != nil {
			logger.Warn("closing embedding service: %v", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}
}
