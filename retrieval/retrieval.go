// Package retrieval answers natural-language questions against the loaded
// knowledge base. Every entry gets a similarity score; the highest-scoring
// entry wins, with load order breaking ties. A best score below the
// configured threshold yields a no-match result rather than an error.
package retrieval

import (
	"context"
	"log/slog"

	"claimsight/kb"
	"claimsight/llm"
)

// Above this entry count, FTS pre-ranking bounds the number of entries
// that get walked for scoring.
const ftsCandidateCutoff = 64

// Result sources reported to callers.
const (
	SourceKnowledgeBase = "knowledge_base"
	SourceDefault       = "default"
)

// QueryResult is the outcome of answering one question. Entry is nil when
// the best score fell below the threshold (or nothing matched at all);
// Confidence always carries the best score so callers can explain why.
type QueryResult struct {
	Entry      *kb.Entry `json:"entry"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
}

// Engine scores questions against the knowledge base. It holds only
// read-only state and is safe for concurrent use.
type Engine struct {
	store     *kb.Store
	index     *kb.Index
	embedder  llm.Embedder
	threshold float64
}

// New creates a retrieval engine. index may be nil (no FTS pre-ranking,
// no vector scoring); embedder may be nil (lexical scoring only).
func New(store *kb.Store, index *kb.Index, embedder llm.Embedder, threshold float64) *Engine {
	return &Engine{
		store:     store,
		index:     index,
		embedder:  embedder,
		threshold: threshold,
	}
}

// Threshold returns the configured confidence threshold.
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Answer finds the best-matching knowledge entry for a question.
// Matching is case- and punctuation-insensitive. The only potentially
// blocking step is a single embedding call when an embedder is configured;
// an embedding failure degrades to lexical scoring instead of failing the
// question.
func (e *Engine) Answer(ctx context.Context, question string) (QueryResult, error) {
	normalized := normalize(question)
	keywords := extractKeywords(normalized)

	vecScores := e.vectorScores(ctx, question)

	if len(keywords) == 0 && len(vecScores) == 0 {
		// Nothing to score against; mirror the low-confidence default.
		return QueryResult{Entry: nil, Confidence: 0.1, Source: SourceDefault}, nil
	}

	candidates := e.candidateSet(ctx, normalized)

	var best *kb.Entry
	bestScore := 0.0

	// Walk entries in load order with a strict > comparison so the first
	// entry among equal top scores wins.
	for i, entry := range e.store.Entries() {
		if candidates != nil && !candidates[entry.ID] {
			continue
		}

		score := lexicalScore(keywords, entry)
		if vs, ok := vecScores[entry.ID]; ok && vs > score {
			score = vs
		}

		if score > bestScore {
			bestScore = score
			best = &e.store.Entries()[i]
		}
	}

	// Raw scores only rank entries; the confidence reported to callers
	// stays in [0,1].
	if bestScore > 1.0 {
		bestScore = 1.0
	}

	if best == nil || bestScore < e.threshold {
		slog.Debug("retrieval: no confident match",
			"question_len", len(question), "best_score", bestScore, "threshold", e.threshold)
		return QueryResult{Entry: nil, Confidence: bestScore, Source: SourceDefault}, nil
	}

	return QueryResult{Entry: best, Confidence: bestScore, Source: SourceKnowledgeBase}, nil
}

// vectorScores embeds the question and returns per-entry cosine scores.
// Returns nil when no embedder is configured or the call fails.
func (e *Engine) vectorScores(ctx context.Context, question string) map[int]float64 {
	if e.embedder == nil || e.index == nil || e.index.EmbeddingDim() == 0 {
		return nil
	}

	embs, err := e.embedder.Embed(ctx, []string{question})
	if err != nil || len(embs) != 1 {
		slog.Warn("retrieval: embedding failed, falling back to lexical scoring", "error", err)
		return nil
	}

	k := e.store.Len()
	if k > 10 {
		k = 10
	}
	matches, err := e.index.SearchVector(ctx, embs[0], k)
	if err != nil {
		slog.Warn("retrieval: vector search failed", "error", err)
		return nil
	}

	scores := make(map[int]float64, len(matches))
	for _, m := range matches {
		scores[m.EntryID] = m.Score
	}
	return scores
}

// candidateSet bounds scoring to FTS-ranked candidates for large knowledge
// bases. Small stores (the normal case) are scored exhaustively, which
// keeps tie-breaking trivially deterministic. Above the cutoff the result
// is approximate: FTS tokenizes words, so an entry that only matches a
// keyword as a substring or as part of a multi-word phrase may be pruned
// before lexical scoring sees it.
func (e *Engine) candidateSet(ctx context.Context, normalized string) map[int]bool {
	if e.index == nil || e.store.Len() <= ftsCandidateCutoff {
		return nil
	}

	matches, err := e.index.SearchFTS(ctx, normalized, ftsCandidateCutoff)
	if err != nil || len(matches) == 0 {
		slog.Debug("retrieval: FTS pre-ranking unavailable, scoring all entries", "error", err)
		return nil
	}

	set := make(map[int]bool, len(matches))
	for _, m := range matches {
		set[m.EntryID] = true
	}
	return set
}
