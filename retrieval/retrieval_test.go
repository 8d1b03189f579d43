package retrieval

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"claimsight/kb"
)

func testStore(t *testing.T) *kb.Store {
	t.Helper()
	s, err := kb.Load(strings.NewReader(`[
  {"question": "What is a deductible?", "answer": "The amount you pay out of pocket before your insurance coverage begins."},
  {"question": "What is subrogation in insurance claims?", "answer": "The process where your insurer recovers costs from a responsible third party."},
  {"question": "Does homeowners insurance cover water damage?", "answer": "Sudden water damage is typically covered; gradual leaks and flood damage are not."}
]`))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAnswerExactQuestion(t *testing.T) {
	e := New(testStore(t), nil, nil, 0.3)

	result, err := e.Answer(context.Background(), "What is a deductible?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if result.Entry == nil {
		t.Fatal("expected a matching entry")
	}
	if result.Entry.ID != 0 {
		t.Errorf("entry: got %d, want 0", result.Entry.ID)
	}
	if result.Confidence < 0.3 {
		t.Errorf("confidence %f below threshold for exact question", result.Confidence)
	}
	if result.Source != SourceKnowledgeBase {
		t.Errorf("source: got %q, want %q", result.Source, SourceKnowledgeBase)
	}
}

func TestAnswerCaseAndPunctuationInsensitive(t *testing.T) {
	e := New(testStore(t), nil, nil, 0.3)

	for _, q := range []string{
		"WHAT IS A DEDUCTIBLE",
		"what is a deductible???",
		"  What, is a \"deductible\"?  ",
	} {
		result, err := e.Answer(context.Background(), q)
		if err != nil {
			t.Fatalf("Answer(%q): %v", q, err)
		}
		if result.Entry == nil || result.Entry.ID != 0 {
			t.Errorf("Answer(%q): expected entry 0, got %+v", q, result.Entry)
		}
	}
}

func TestAnswerDefaultKnowledgeBase(t *testing.T) {
	store, err := kb.Default()
	if err != nil {
		t.Fatal(err)
	}
	e := New(store, nil, nil, 0.3)

	// Several earlier entries mention "deductible" in their answers; the
	// entry asking the question itself must still win.
	result, err := e.Answer(context.Background(), "what is a deductible")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entry == nil {
		t.Fatal("expected a match")
	}
	if result.Entry.Question != "What is a deductible?" {
		t.Errorf("matched %q, want the deductible entry", result.Entry.Question)
	}
	if result.Confidence < 0.3 || result.Confidence > 1 {
		t.Errorf("confidence %f outside [threshold, 1]", result.Confidence)
	}
}

func TestAnswerQuestionMatchOutranksAnswerOnly(t *testing.T) {
	// The answer-only match loads first; the question match must still win.
	s, err := kb.Load(strings.NewReader(`[
  {"question": "What does a homeowners policy cover?", "answer": "Coverage applies after you pay the deductible."},
  {"question": "What is a deductible?", "answer": "A deductible is the amount you pay before coverage begins."}
]`))
	if err != nil {
		t.Fatal(err)
	}
	e := New(s, nil, nil, 0.3)

	result, err := e.Answer(context.Background(), "what is a deductible")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entry == nil || result.Entry.ID != 1 {
		t.Errorf("expected entry 1, got %+v", result.Entry)
	}
	if result.Confidence != 1.0 {
		t.Errorf("confidence: got %f, want clamped 1.0", result.Confidence)
	}
}

func TestAnswerNoMatch(t *testing.T) {
	e := New(testStore(t), nil, nil, 0.3)

	result, err := e.Answer(context.Background(), "banana spaceship telescope")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if result.Entry != nil {
		t.Errorf("expected no entry for unrelated question, got %+v", result.Entry)
	}
	if result.Source != SourceDefault {
		t.Errorf("source: got %q, want %q", result.Source, SourceDefault)
	}
	if result.Confidence >= 0.3 {
		t.Errorf("confidence %f should be below threshold", result.Confidence)
	}
}

func TestAnswerNoKeywords(t *testing.T) {
	e := New(testStore(t), nil, nil, 0.3)

	result, err := e.Answer(context.Background(), "what is it?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if result.Entry != nil {
		t.Errorf("expected no entry, got %+v", result.Entry)
	}
	if result.Confidence != 0.1 {
		t.Errorf("confidence: got %f, want 0.1", result.Confidence)
	}
}

func TestAnswerTieBreakLoadOrder(t *testing.T) {
	s, err := kb.Load(strings.NewReader(`[
  {"question": "subrogation basics", "answer": "one"},
  {"question": "subrogation basics", "answer": "one"}
]`))
	if err != nil {
		t.Fatal(err)
	}
	e := New(s, nil, nil, 0.3)

	result, err := e.Answer(context.Background(), "subrogation basics")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entry == nil || result.Entry.ID != 0 {
		t.Errorf("equal scores should resolve to the earliest entry, got %+v", result.Entry)
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("provider unavailable")
}

func TestAnswerEmbedderFailureDegradesToLexical(t *testing.T) {
	store := testStore(t)
	index, err := kb.NewIndex(store, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer index.Close()

	e := New(store, index, failingEmbedder{}, 0.3)

	result, err := e.Answer(context.Background(), "What is a deductible?")
	if err != nil {
		t.Fatalf("Answer should not fail when embedding fails: %v", err)
	}
	if result.Entry == nil || result.Entry.ID != 0 {
		t.Errorf("expected lexical fallback to find entry 0, got %+v", result.Entry)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"What is a Deductible?", "what is a deductible "},
		{"  HELLO  ", "hello"},
		{"water-damage!", "water damage "},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	got := extractKeywords("what documentation do i need for water damage")
	want := []string{"documentation", "water", "damage", "water damage"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractKeywords: got %v, want %v", got, want)
	}

	if kws := extractKeywords("what is it"); kws != nil {
		t.Errorf("stopword-only input should yield no keywords, got %v", kws)
	}
}

func TestLexicalScore(t *testing.T) {
	entry := kb.Entry{
		Question: "what is a deductible",
		Answer:   "the amount you pay before coverage, known as the deductible",
	}

	tests := []struct {
		name     string
		keywords []string
		want     float64
	}{
		{"no keywords", nil, 0},
		{"question and answer match", []string{"deductible"}, 3.0},
		{"answer-only match", []string{"coverage"}, 1.0},
		{"no matches", []string{"spaceship"}, 0},
		{"partial match halved", []string{"coverage", "aaa", "bbb", "ccc"}, 0.125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lexicalScore(tt.keywords, entry); got != tt.want {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}
