// Package claimsight wires the claim document extractor, the insurance
// knowledge base, and the relationship graph into one application facade.
// All shared state is loaded once at construction and read-only afterwards;
// each user action dispatches to exactly one component.
package claimsight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"claimsight/extract"
	"claimsight/graph"
	"claimsight/kb"
	"claimsight/llm"
	"claimsight/retrieval"
)

// App is the assembled application: extractor, knowledge store + retriever,
// and relationship graph. Safe for concurrent use after New returns.
type App struct {
	cfg       Config
	extractor *extract.Extractor
	knowledge *kb.Store
	index     *kb.Index
	retriever *retrieval.Engine
	graph     *graph.Graph
}

// New builds the application from config: loads the knowledge base and
// graph (built-in defaults unless paths are configured), builds the search
// index, and precomputes entry embeddings when a provider is configured.
// Malformed startup data fails here; nothing later mutates shared state.
func New(cfg Config) (*App, error) {
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return nil, fmt.Errorf("%w: confidence threshold %v outside [0,1]",
			ErrInvalidConfig, cfg.ConfidenceThreshold)
	}

	store, err := loadKnowledge(cfg)
	if err != nil {
		return nil, err
	}

	g, err := loadGraph(cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := llm.NewEmbedder(llm.Config{
		Provider: cfg.Embedding.Provider,
		Model:    cfg.Embedding.Model,
		BaseURL:  cfg.Embedding.BaseURL,
		APIKey:   cfg.Embedding.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding provider: %w", err)
	}

	dim := 0
	if embedder != nil {
		dim = cfg.EmbeddingDim
		if dim <= 0 {
			return nil, fmt.Errorf("%w: embedding provider configured with dimension %d",
				ErrInvalidConfig, dim)
		}
	}

	index, err := kb.NewIndex(store, dim)
	if err != nil {
		return nil, fmt.Errorf("building knowledge index: %w", err)
	}

	if embedder != nil {
		if err := precomputeEmbeddings(store, index, embedder); err != nil {
			index.Close()
			return nil, err
		}
	}

	app := &App{
		cfg:       cfg,
		extractor: extract.New(),
		knowledge: store,
		index:     index,
		retriever: retrieval.New(store, index, embedder, cfg.ConfidenceThreshold),
		graph:     g,
	}

	slog.Info("claimsight ready",
		"kb_entries", store.Len(),
		"graph_nodes", g.Len(),
		"embeddings", embedder != nil,
	)
	return app, nil
}

func loadKnowledge(cfg Config) (*kb.Store, error) {
	if cfg.KnowledgeBase == "" {
		return kb.Default()
	}
	return kb.LoadFile(cfg.KnowledgeBase)
}

func loadGraph(cfg Config) (*graph.Graph, error) {
	if cfg.GraphData == "" {
		return graph.Sample(), nil
	}
	return graph.LoadFile(cfg.GraphData)
}

// precomputeEmbeddings embeds every entry question in one batch call so
// answering questions later needs at most one embedding request each.
func precomputeEmbeddings(store *kb.Store, index *kb.Index, embedder llm.Embedder) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	questions := make([]string, store.Len())
	for i, e := range store.Entries() {
		questions[i] = e.Question
	}

	embs, err := embedder.Embed(ctx, questions)
	if err != nil {
		return fmt.Errorf("precomputing knowledge base embeddings: %w", err)
	}
	if len(embs) != len(questions) {
		return fmt.Errorf("embedding provider returned %d vectors for %d entries",
			len(embs), len(questions))
	}

	for i, emb := range embs {
		if err := index.InsertEmbedding(ctx, i, emb); err != nil {
			return fmt.Errorf("storing embedding for entry %d: %w", i, err)
		}
	}

	slog.Info("knowledge base embeddings precomputed", "entries", len(embs))
	return nil
}

// Extract decodes an uploaded claim document and scans it for claim fields.
func (a *App) Extract(ctx context.Context, path string) (*extract.ClaimRecord, error) {
	return a.extractor.Extract(ctx, path)
}

// ExtractBytes extracts an uploaded document held in memory.
func (a *App) ExtractBytes(ctx context.Context, name string, data []byte) (*extract.ClaimRecord, error) {
	return a.extractor.ExtractBytes(ctx, name, data)
}

// Ask answers an insurance question against the knowledge base.
func (a *App) Ask(ctx context.Context, question string) (retrieval.QueryResult, error) {
	return a.retriever.Answer(ctx, question)
}

// Graph returns the relationship graph for lookups and path queries.
func (a *App) Graph() *graph.Graph {
	return a.graph
}

// Knowledge returns the loaded knowledge base.
func (a *App) Knowledge() *kb.Store {
	return a.knowledge
}

// Threshold returns the configured confidence threshold.
func (a *App) Threshold() float64 {
	return a.cfg.ConfidenceThreshold
}

// Close releases the in-memory search index.
func (a *App) Close() error {
	return a.index.Close()
}
