package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelConfig identifies a generation model and its sampling limits.
// MaxTokens of zero and a nil Temperature mean "provider default".
type ModelConfig struct {
	ID          string   `yaml:"id"`
	MaxTokens   int      `yaml:"max_tokens,omitempty"`
	Temperature *float32 `yaml:"temperature,omitempty"`
}

// RetrieverConfig contains the embedding model and vector collection
// settings. VectorSize must equal the dimensionality EmbeddingModel
// produces; a mismatch is caught at the first index or search call.
type RetrieverConfig struct {
	EmbeddingModel string `yaml:"embedding_model"`
	CollectionName string `yaml:"collection_name"`
	VectorSize     int    `yaml:"vector_size"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
}

// VectorStoreConfig selects the vector store implementation.
type VectorStoreConfig struct {
	Type        string `yaml:"type"`
	APIKeyEnv   string `yaml:"api_key_env,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs,omitempty"`
}

// ServerConfig configures the HTTP chat API.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	RouterModel    ModelConfig       `yaml:"router_model"`
	ResponderModel ModelConfig       `yaml:"responder_model"`
	Retriever      RetrieverConfig   `yaml:"retriever"`
	VectorStore    VectorStoreConfig `yaml:"vector_store"`
	Server         ServerConfig      `yaml:"server"`
	CorpusPath     string            `yaml:"corpus_path"`
	TopK           int               `yaml:"top_k"`
	LogLevel       string            `yaml:"log_level"`
}

// Load reads a config from the given path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		RouterModel:    ModelConfig{ID: "gemini-2.0-flash"},
		ResponderModel: ModelConfig{ID: "gemini-2.0-flash"},
		Retriever: RetrieverConfig{
			EmbeddingModel: "text-embedding-004",
			CollectionName: "docs_collection",
			VectorSize:     768,
			Host:           "localhost",
			Port:           6333,
		},
		VectorStore: VectorStoreConfig{Type: "qdrant", TimeoutSecs: 15},
		Server:      ServerConfig{Port: 8080, CORSOrigins: []string{"*"}},
		CorpusPath:  "data/docs.csv",
		TopK:        5,
		LogLevel:    "info",
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.RouterModel.ID == "" {
		cfg.RouterModel.ID = def.RouterModel.ID
	}
	if cfg.ResponderModel.ID == "" {
		cfg.ResponderModel.ID = def.ResponderModel.ID
	}
	if cfg.Retriever.EmbeddingModel == "" {
		cfg.Retriever.EmbeddingModel = def.Retriever.EmbeddingModel
	}
	if cfg.Retriever.CollectionName == "" {
		cfg.Retriever.CollectionName = def.Retriever.CollectionName
	}
	if cfg.Retriever.VectorSize == 0 {
		cfg.Retriever.VectorSize = def.Retriever.VectorSize
	}
	if cfg.Retriever.Host == "" {
		cfg.Retriever.Host = def.Retriever.Host
	}
	if cfg.Retriever.Port == 0 {
		cfg.Retriever.Port = def.Retriever.Port
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = def.VectorStore.Type
	}
	if cfg.VectorStore.TimeoutSecs == 0 {
		cfg.VectorStore.TimeoutSecs = def.VectorStore.TimeoutSecs
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = def.Server.CORSOrigins
	}
	if cfg.CorpusPath == "" {
		cfg.CorpusPath = def.CorpusPath
	}
	if cfg.TopK == 0 {
		cfg.TopK = def.TopK
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
}

func validate(cfg *AppConfig) error {
	if cfg.Retriever.VectorSize <= 0 {
		return fmt.Errorf("retriever.vector_size must be positive, got %d", cfg.Retriever.VectorSize)
	}
	if cfg.Retriever.Port <= 0 {
		return fmt.Errorf("retriever.port must be positive, got %d", cfg.Retriever.Port)
	}
	if cfg.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", cfg.TopK)
	}
	switch cfg.VectorStore.Type {
	case "qdrant", "memory":
	default:
		return fmt.Errorf("unknown vector store type %q", cfg.VectorStore.Type)
	}
	return nil
}
