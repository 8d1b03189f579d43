// Package kb holds the static insurance knowledge base: a JSON array of
// question/answer entries loaded once at startup and read-only afterwards.
package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrLoad is returned when the knowledge base file is malformed. This is
// fatal at startup: a bad knowledge base should halt the process.
var ErrLoad = errors.New("kb: invalid knowledge base")

// Entry is a single knowledge base record.
type Entry struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

// Store is the loaded knowledge base. Entries keep their load order, which
// is the tie-break order for retrieval.
type Store struct {
	entries []Entry
}

// Load reads a JSON array of {question, answer, category} records.
// Malformed JSON or entries missing question/answer fail with ErrLoad.
func Load(r io.Reader) (*Store, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrLoad)
	}

	for i := range entries {
		if entries[i].Question == "" {
			return nil, fmt.Errorf("%w: entry %d missing question", ErrLoad, i)
		}
		if entries[i].Answer == "" {
			return nil, fmt.Errorf("%w: entry %d missing answer", ErrLoad, i)
		}
		entries[i].ID = i
	}

	return &Store{entries: entries}, nil
}

// LoadFile loads a knowledge base from a JSON file on disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrLoad, path, err)
	}
	defer f.Close()
	return Load(f)
}

// Entries returns all entries in load order. Callers must not mutate them.
func (s *Store) Entries() []Entry {
	return s.entries
}

// Entry returns the entry with the given id.
func (s *Store) Entry(id int) (Entry, bool) {
	if id < 0 || id >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[id], true
}

func (s *Store) Len() int {
	return len(s.entries)
}
