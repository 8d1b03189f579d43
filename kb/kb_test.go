package kb

import (
	"errors"
	"strings"
	"testing"
)

const validKB = `[
  {"question": "What is a deductible?", "answer": "The amount you pay before coverage begins.", "category": "basics"},
  {"question": "What is subrogation?", "answer": "Recovery from a responsible third party."}
]`

func TestLoad(t *testing.T) {
	s, err := Load(strings.NewReader(validKB))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}

	entries := s.Entries()
	if entries[0].Question != "What is a deductible?" {
		t.Errorf("first entry out of load order: %q", entries[0].Question)
	}
	if entries[0].ID != 0 || entries[1].ID != 1 {
		t.Errorf("ids should follow load order: %d, %d", entries[0].ID, entries[1].ID)
	}
	if entries[1].Category != "" {
		t.Errorf("category should be optional, got %q", entries[1].Category)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{not json`},
		{"object not array", `{"question": "q", "answer": "a"}`},
		{"empty array", `[]`},
		{"missing question", `[{"answer": "a"}]`},
		{"missing answer", `[{"question": "q"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.data))
			if !errors.Is(err, ErrLoad) {
				t.Fatalf("expected ErrLoad, got %v", err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("does-not-exist.json")
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestDefault(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if s.Len() == 0 {
		t.Fatal("built-in knowledge base is empty")
	}

	for i, e := range s.Entries() {
		if e.Question == "" || e.Answer == "" {
			t.Errorf("entry %d incomplete", i)
		}
	}
}

func TestEntryLookup(t *testing.T) {
	s, err := Load(strings.NewReader(validKB))
	if err != nil {
		t.Fatal(err)
	}

	if e, ok := s.Entry(1); !ok || e.Question != "What is subrogation?" {
		t.Errorf("Entry(1): got %v, %v", e, ok)
	}
	if _, ok := s.Entry(5); ok {
		t.Error("Entry(5) should not exist")
	}
	if _, ok := s.Entry(-1); ok {
		t.Error("Entry(-1) should not exist")
	}
}
