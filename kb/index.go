package kb

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// Match is a scored index hit referencing an entry by id.
type Match struct {
	EntryID int
	Score   float64
}

// Index is an in-memory SQLite search index over the knowledge base:
// an FTS5 table for lexical candidate ranking and, when embeddingDim > 0,
// a vec0 virtual table holding precomputed entry embeddings. Nothing is
// persisted; the database lives only for the life of the process.
type Index struct {
	db           *sql.DB
	embeddingDim int
}

// NewIndex builds the index from the loaded store. Entries are indexed once;
// the index is read-only afterwards apart from embedding inserts at startup.
func NewIndex(store *Store, embeddingDim int) (*Index, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	// The in-memory DB vanishes if its only connection closes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(indexSchema(embeddingDim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}

	for _, e := range store.Entries() {
		if _, err := db.Exec(
			"INSERT INTO entries (id, question, answer, category) VALUES (?, ?, ?, ?)",
			e.ID, e.Question, e.Answer, e.Category); err != nil {
			db.Close()
			return nil, fmt.Errorf("indexing entry %d: %w", e.ID, err)
		}
		if _, err := db.Exec(
			"INSERT INTO entries_fts (rowid, question, answer) VALUES (?, ?, ?)",
			e.ID, e.Question, e.Answer); err != nil {
			db.Close()
			return nil, fmt.Errorf("indexing entry %d for FTS: %w", e.ID, err)
		}
	}

	return &Index{db: db, embeddingDim: embeddingDim}, nil
}

func indexSchema(embeddingDim int) string {
	schema := `
CREATE TABLE entries (
    id INTEGER PRIMARY KEY,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    category TEXT
);

CREATE VIRTUAL TABLE entries_fts USING fts5(
    question,
    answer,
    content='entries',
    content_rowid='id',
    tokenize='porter unicode61'
);
`
	if embeddingDim > 0 {
		schema += fmt.Sprintf(`
CREATE VIRTUAL TABLE vec_entries USING vec0(
    entry_id INTEGER PRIMARY KEY,
    embedding float[%d]
);
`, embeddingDim)
	}
	return schema
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

// EmbeddingDim reports the configured embedding dimension (0 = no vectors).
func (ix *Index) EmbeddingDim() int {
	return ix.embeddingDim
}

// SearchFTS performs a full-text search using FTS5 BM25 ranking.
// Query terms are quoted so user punctuation cannot break FTS syntax.
func (ix *Index) SearchFTS(ctx context.Context, query string, limit int) ([]Match, error) {
	fts := sanitizeFTSQuery(query)
	if fts == "" {
		return nil, nil
	}

	rows, err := ix.db.QueryContext(ctx, `
		SELECT rowid, rank
		FROM entries_fts
		WHERE entries_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, fts, limit)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var rank float64
		if err := rows.Scan(&m.EntryID, &rank); err != nil {
			return nil, err
		}
		// FTS5 rank is negative (lower = better), convert to positive score
		m.Score = -rank
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// InsertEmbedding stores a precomputed embedding for an entry.
func (ix *Index) InsertEmbedding(ctx context.Context, entryID int, embedding []float32) error {
	if ix.embeddingDim == 0 {
		return fmt.Errorf("index built without embeddings")
	}
	if len(embedding) != ix.embeddingDim {
		return fmt.Errorf("embedding dimension %d does not match index dimension %d",
			len(embedding), ix.embeddingDim)
	}
	// Stored unit-normalized so L2 distance maps onto cosine similarity.
	_, err := ix.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO vec_entries (entry_id, embedding) VALUES (?, ?)",
		entryID, serializeFloat32(normalize(embedding)))
	return err
}

// SearchVector performs a KNN search returning the k nearest entries.
// Scores are cosine similarity clamped to [0,1].
func (ix *Index) SearchVector(ctx context.Context, queryEmbedding []float32, k int) ([]Match, error) {
	if ix.embeddingDim == 0 {
		return nil, nil
	}

	rows, err := ix.db.QueryContext(ctx, `
		SELECT entry_id, distance
		FROM vec_entries
		WHERE embedding MATCH ? AND k = ?
		ORDER BY distance
	`, serializeFloat32(normalize(queryEmbedding)), k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var distance float64
		if err := rows.Scan(&m.EntryID, &distance); err != nil {
			return nil, err
		}
		// vec0 L2 distance between unit vectors: d^2 = 2 - 2cos.
		cos := 1 - distance*distance/2
		if cos < 0 {
			cos = 0
		}
		if cos > 1 {
			cos = 1
		}
		m.Score = cos
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// normalize scales a vector to unit length so L2 distance maps onto cosine.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// sanitizeFTSQuery quotes each term so FTS5 treats user input literally.
func sanitizeFTSQuery(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `"'?!.,;:()`)
		if f == "" {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(f, `"`, "")+`"`)
	}
	return strings.Join(terms, " OR ")
}

// serializeFloat32 converts a float32 slice to little-endian bytes for sqlite-vec.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}
