package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Preprocessor turns raw text into a comparison key.
type Preprocessor interface {
	Preprocess(s string) string
}

// Store keeps user-confirmed term → file key associations, persisted as a
// flat JSON object after every addition.
type Store struct {
	fs     afero.Fs
	path   string
	pre    Preprocessor
	logger zerolog.Logger

	mu      sync.RWMutex
	entries map[string]string
}

// Open loads the store from path. A missing file yields an empty store;
// an unreadable or malformed one is logged and also yields an empty store.
func Open(fs afero.Fs, path string, pre Preprocessor, logger zerolog.Logger) *Store {
	s := &Store{
		fs:      fs,
		path:    path,
		pre:     pre,
		logger:  logger,
		entries: make(map[string]string),
	}
	s.load()
	return s
}

func (s *Store) load() {
	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("mappings unreadable, ignoring")
		}
		return
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("mappings invalid, ignoring")
		return
	}
	if m != nil {
		s.entries = m
	}
}

// Lookup returns the file key learned for term, if any. The caller decides
// whether the key is still indexed.
func (s *Store) Lookup(term string) (string, bool) {
	k := s.pre.Preprocess(term)
	if k == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.entries[k]
	return key, ok
}

// Add stores term → fileKey and persists right away. Persistence errors are
// logged; the entry stays in memory.
func (s *Store) Add(term, fileKey string) {
	k := s.pre.Preprocess(term)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[k] = fileKey
	if err := s.save(); err != nil {
		s.logger.Warn().Err(err).Str("term", k).Str("key", fileKey).Msg("mapping not persisted")
	}
}

// All returns a copy of every entry, sorted by term.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for t, k := range s.entries {
		out = append(out, Entry{Term: t, Key: k})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

type Entry struct {
	Term string `json:"term"`
	Key  string `json:"key"`
}

// save writes a temp file then renames it over the target. Caller holds mu.
func (s *Store) save() error {
	b, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mappings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, b, 0o644); err != nil {
		return fmt.Errorf("write mappings: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace mappings: %w", err)
	}
	return nil
}
