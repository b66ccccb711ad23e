// Package dataset maintains the per-category gesture dataset on disk.
//
// Each category owns one JSON file, <dir>/<category>.json, holding an array
// of preprocessed feature sequences (arrays of 18-value timestep arrays).
// The store accumulates newly accepted sequences in memory during a
// collection session and merges only those into the file on flush, so
// previously persisted recordings are never rewritten or duplicated.
package dataset

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/airglyph/airglyph/internal/fsutil"
)

// Store is the incremental per-category dataset store.
//
// For every loaded category it tracks a watermark: the number of sequences
// that were already on disk at load time (plus those flushed since). Flush
// appends only the in-memory sequences beyond the watermark. The watermark
// never decreases and is always ≤ the in-memory count.
//
// The defensive re-read in Flush tolerates a slow external writer between
// sessions, but the store is not designed for multi-process concurrent
// append; two processes flushing the same category can still lose data.
type Store struct {
	fs  fsutil.FileSystem
	dir string

	mu         sync.Mutex
	sequences  map[string][][][]float64
	watermarks map[string]int
}

// NewStore creates a store rooted at dir on the given filesystem.
func NewStore(fs fsutil.FileSystem, dir string) *Store {
	return &Store{
		fs:         fs,
		dir:        dir,
		sequences:  make(map[string][][][]float64),
		watermarks: make(map[string]int),
	}
}

func (s *Store) path(category string) string {
	return filepath.Join(s.dir, category+".json")
}

// Load reads the persisted sequences for a category into memory and sets
// the category's watermark to the count read (0 when no file exists).
// Loading a category discards any unflushed in-memory sequences for it.
func (s *Store) Load(category string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seqs, err := s.readCategory(category)
	if err != nil {
		return 0, err
	}
	s.sequences[category] = seqs
	s.watermarks[category] = len(seqs)
	return len(seqs), nil
}

// LoadAll loads every category file found under the store directory.
// A missing directory is treated as an empty dataset.
func (s *Store) LoadAll() error {
	if !s.fs.Exists(s.dir) {
		return nil
	}
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("dataset: list %s: %w", s.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		category := strings.TrimSuffix(e.Name(), ".json")
		if _, err := s.Load(category); err != nil {
			return err
		}
	}
	return nil
}

// readCategory reads the current on-disk sequences for a category.
func (s *Store) readCategory(category string) ([][][]float64, error) {
	path := s.path(category)
	if !s.fs.Exists(path) {
		return nil, nil
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	var seqs [][][]float64
	if err := json.Unmarshal(data, &seqs); err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	return seqs, nil
}

// Accept appends a preprocessed sequence to the in-memory list for the
// category. No I/O happens until Flush.
func (s *Store) Accept(category string, seq [][]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[category] = append(s.sequences[category], seq)
}

// Flush persists the category's newly accepted sequences and returns how
// many were written. The current file is re-read first so sequences added
// by an external writer since load are preserved; existing entries are
// never truncated or reordered. When nothing new was accepted, Flush is a
// no-op and performs no write.
//
// On error the in-memory sequences and watermark are left untouched, so a
// later retry flushes the same data.
func (s *Store) Flush(category string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(category)
}

func (s *Store) flushLocked(category string) (int, error) {
	inMemory := s.sequences[category]
	watermark := s.watermarks[category]
	if len(inMemory) <= watermark {
		return 0, nil
	}
	fresh := inMemory[watermark:]

	existing, err := s.readCategory(category)
	if err != nil {
		return 0, err
	}
	merged := append(existing, fresh...)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("dataset: encode %s: %w", category, err)
	}
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return 0, fmt.Errorf("dataset: mkdir %s: %w", s.dir, err)
	}
	if err := s.fs.WriteFile(s.path(category), data, 0644); err != nil {
		return 0, fmt.Errorf("dataset: write %s: %w", s.path(category), err)
	}

	// Adopt the merged view so the watermark invariant (watermark ≤
	// in-memory count) holds even when an external writer grew the file
	// between load and flush.
	s.sequences[category] = merged
	s.watermarks[category] = len(merged)
	return len(fresh), nil
}

// FlushAll flushes every category. A failure in one category is recorded
// and does not prevent the others from flushing; the combined error lists
// each failed category.
func (s *Store) FlushAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var failures []error
	for _, category := range s.categoriesLocked() {
		if _, err := s.flushLocked(category); err != nil {
			failures = append(failures, fmt.Errorf("category %q: %w", category, err))
		}
	}
	if len(failures) > 0 {
		return &FlushError{Failures: failures}
	}
	return nil
}

// FlushError reports the categories that failed to persist during FlushAll.
type FlushError struct {
	Failures []error
}

func (e *FlushError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, err := range e.Failures {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("dataset: flush failed for %d categories: %s",
		len(e.Failures), strings.Join(msgs, "; "))
}

// Count returns the in-memory sequence count for a category.
func (s *Store) Count(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sequences[category])
}

// Pending returns how many accepted sequences have not been flushed yet.
func (s *Store) Pending(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.sequences[category]) - s.watermarks[category]
	if n < 0 {
		return 0
	}
	return n
}

// Sequences returns a copy of the in-memory sequences for a category. The
// inner slices are shared; callers must not mutate them.
func (s *Store) Sequences(category string) [][][]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seqs := make([][][]float64, len(s.sequences[category]))
	copy(seqs, s.sequences[category])
	return seqs
}

// Categories lists the known categories in sorted order.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoriesLocked()
}

func (s *Store) categoriesLocked() []string {
	categories := make([]string, 0, len(s.sequences))
	for c := range s.sequences {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Stats returns the in-memory sequence count per category.
func (s *Store) Stats() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := make(map[string]int, len(s.sequences))
	for c, seqs := range s.sequences {
		stats[c] = len(seqs)
	}
	return stats
}
