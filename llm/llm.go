// Package llm provides optional embedding providers for semantic retrieval.
// When no provider is configured the retriever falls back to lexical scoring,
// so nothing in this package is required for the application to run.
package llm

import (
	"context"
	"fmt"
)

// Embedder generates embeddings for a batch of texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Config configures an embedding provider endpoint.
type Config struct {
	Provider string `json:"provider"` // openai, ollama, or empty for none
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
}

// NewEmbedder creates the configured embedding provider. An empty provider
// returns (nil, nil): the caller runs lexical-only.
func NewEmbedder(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAI(cfg)
	case "ollama":
		return NewOllama(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
