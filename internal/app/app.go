// Package app builds the pipeline from configuration. Construction happens
// once at process start; components receive their dependencies explicitly
// and no global state is involved.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"flarerag/internal/ai"
	"flarerag/internal/config"
	"flarerag/internal/domain"
	"flarerag/internal/responder"
	"flarerag/internal/retriever"
	"flarerag/internal/router"
	"flarerag/internal/service"
	"flarerag/internal/vectorstore/memory"
	"flarerag/internal/vectorstore/qdrant"
)

// APIKeyEnv is the environment variable holding the Gemini API key.
const APIKeyEnv = "GEMINI_API_KEY"

// Components bundles everything a front-end needs.
type Components struct {
	Pipeline *service.Pipeline
	Indexer  *retriever.Indexer
}

// Build assembles the pipeline and indexer from configuration.
func Build(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*Components, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key in env %s", APIKeyEnv)
	}

	routerClient, err := ai.NewGeminiProvider(ctx, apiKey, cfg.RouterModel, "", log)
	if err != nil {
		return nil, fmt.Errorf("building router provider: %w", err)
	}
	responderCfg := responder.DefaultConfig(cfg.ResponderModel)
	responderClient, err := ai.NewGeminiProvider(ctx, apiKey, cfg.ResponderModel, responderCfg.SystemPrompt, log)
	if err != nil {
		return nil, fmt.Errorf("building responder provider: %w", err)
	}
	embedder, err := ai.NewGeminiEmbedding(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("building embedding client: %w", err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	queryRouter := router.New(routerClient, router.DefaultConfig(cfg.RouterModel), log)
	search := retriever.New(store, embedder, cfg.Retriever, log)
	answer := responder.New(responderClient, responderCfg)
	indexer := retriever.NewIndexer(store, embedder, cfg.Retriever, log)
	pipeline := service.NewPipeline(queryRouter, search, answer, cfg.TopK, log)

	return &Components{Pipeline: pipeline, Indexer: indexer}, nil
}

func buildStore(cfg *config.AppConfig) (domain.VectorStore, error) {
	switch cfg.VectorStore.Type {
	case "memory":
		return memory.NewStore(), nil
	case "qdrant", "":
		apiKey := ""
		if cfg.VectorStore.APIKeyEnv != "" {
			apiKey = os.Getenv(cfg.VectorStore.APIKeyEnv)
		}
		return qdrant.NewStore(qdrant.Config{
			Host:       cfg.Retriever.Host,
			Port:       cfg.Retriever.Port,
			APIKey:     apiKey,
			Collection: cfg.Retriever.CollectionName,
			Timeout:    time.Duration(cfg.VectorStore.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}

// NewLogger builds a console zerolog logger at the configured level.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}
