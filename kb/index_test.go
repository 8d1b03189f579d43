package kb

import (
	"context"
	"strings"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Load(strings.NewReader(`[
  {"question": "What is a deductible?", "answer": "The amount you pay before insurance coverage begins."},
  {"question": "What is subrogation in insurance claims?", "answer": "Recovery from a responsible third party after paying a claim."},
  {"question": "What documentation is required for a water damage claim?", "answer": "Photos, repair estimates, and an inventory of damaged property."}
]`))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSearchFTS(t *testing.T) {
	ix, err := NewIndex(testStore(t), 0)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer ix.Close()

	ctx := context.Background()

	matches, err := ix.SearchFTS(ctx, "deductible", 10)
	if err != nil {
		t.Fatalf("SearchFTS: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected at least one FTS match")
	}
	if matches[0].EntryID != 0 {
		t.Errorf("top match: got entry %d, want 0", matches[0].EntryID)
	}
	if matches[0].Score <= 0 {
		t.Errorf("score should be positive, got %f", matches[0].Score)
	}
}

func TestSearchFTSPunctuation(t *testing.T) {
	ix, err := NewIndex(testStore(t), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer ix.Close()

	// User punctuation must not break FTS5 query syntax.
	matches, err := ix.SearchFTS(context.Background(), `what is "subrogation"?!`, 10)
	if err != nil {
		t.Fatalf("SearchFTS with punctuation: %v", err)
	}
	found := false
	for _, m := range matches {
		if m.EntryID == 1 {
			found = true
		}
	}
	if !found {
		t.Error("expected subrogation entry among matches")
	}
}

func TestSearchFTSNoMatch(t *testing.T) {
	ix, err := NewIndex(testStore(t), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer ix.Close()

	matches, err := ix.SearchFTS(context.Background(), "zzzyyyxxx", 10)
	if err != nil {
		t.Fatalf("SearchFTS: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}

	matches, err = ix.SearchFTS(context.Background(), "   ", 10)
	if err != nil || matches != nil {
		t.Errorf("blank query: got %v, %v", matches, err)
	}
}

func TestVectorSearch(t *testing.T) {
	ix, err := NewIndex(testStore(t), 4)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer ix.Close()

	ctx := context.Background()

	embeddings := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
	for i, emb := range embeddings {
		if err := ix.InsertEmbedding(ctx, i, emb); err != nil {
			t.Fatalf("InsertEmbedding(%d): %v", i, err)
		}
	}

	matches, err := ix.SearchVector(ctx, []float32{0.9, 0.1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("SearchVector: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].EntryID != 0 {
		t.Errorf("nearest: got entry %d, want 0", matches[0].EntryID)
	}
	if matches[0].Score <= matches[1].Score {
		t.Errorf("scores should decrease: %f then %f", matches[0].Score, matches[1].Score)
	}
	if matches[0].Score < 0.9 || matches[0].Score > 1 {
		t.Errorf("near-identical vectors should score close to 1, got %f", matches[0].Score)
	}
}

func TestInsertEmbeddingDimensionMismatch(t *testing.T) {
	ix, err := NewIndex(testStore(t), 4)
	if err != nil {
		t.Fatal(err)
	}
	defer ix.Close()

	if err := ix.InsertEmbedding(context.Background(), 0, []float32{1, 2}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestVectorSearchWithoutEmbeddings(t *testing.T) {
	ix, err := NewIndex(testStore(t), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer ix.Close()

	matches, err := ix.SearchVector(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("SearchVector: %v", err)
	}
	if matches != nil {
		t.Errorf("index without embeddings should return nil, got %v", matches)
	}

	if err := ix.InsertEmbedding(context.Background(), 0, []float32{1, 0}); err == nil {
		t.Error("InsertEmbedding on vector-less index should fail")
	}
}
