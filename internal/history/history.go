package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"newsreel/internal/logger"
)

// Record is one previously posted headline.
type Record struct {
	Headline  string `json:"headline"`
	Timestamp int64  `json:"timestamp"`
}

// Store keeps headlines posted within the retention window and answers
// duplicate checks against them. Exact matches are caught by normalized
// comparison; reworded re-publications of the same story are caught by
// Jaccard similarity over the normalized token sets.
type Store struct {
	filePath  string
	retention time.Duration
	threshold float64
	now       func() time.Time

	mu      sync.RWMutex
	records []Record
}

// Small words carry no signal for short headlines and only inflate the
// token union, so they are dropped before comparison.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true,
	"and": true, "or": true, "as": true, "is": true, "are": true,
}

func New(filePath string, retention time.Duration, threshold float64) *Store {
	return &Store{
		filePath:  filePath,
		retention: retention,
		threshold: threshold,
		now:       time.Now,
	}
}

// Load reads the history file. A missing, empty or corrupt file starts an
// empty history: keeping the bot posting matters more than perfect
// duplicate suppression.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.Warn("history file unreadable, starting fresh", "path", s.filePath, "error", err)
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("history file corrupt, starting fresh", "path", s.filePath, "error", err)
		return nil
	}

	cutoff := s.now().Add(-s.retention).Unix()
	for _, r := range records {
		if r.Timestamp > cutoff {
			s.records = append(s.records, r)
		}
	}

	return nil
}

// IsDuplicate reports whether candidate matches a stored headline, either
// exactly after normalization or with similarity at or above the threshold.
func (s *Store) IsDuplicate(candidate string) bool {
	normalized := normalize(candidate)
	candidateTokens := tokenSet(normalized)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		stored := normalize(r.Headline)
		if normalized != "" && normalized == stored {
			return true
		}
		if jaccard(candidateTokens, tokenSet(stored)) >= s.threshold {
			return true
		}
	}
	return false
}

// Add records a headline and rewrites the backing file. Volume is a
// handful of headlines per day, so the full rewrite per accept is fine.
func (s *Store) Add(headline string) error {
	s.mu.Lock()
	s.records = append(s.records, Record{
		Headline:  strings.TrimSpace(headline),
		Timestamp: s.now().Unix(),
	})
	s.purgeLocked()
	s.mu.Unlock()

	return s.persist()
}

// PurgeExpired drops records older than the retention window. A record
// whose age equals the window exactly is expired.
func (s *Store) PurgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
}

func (s *Store) purgeLocked() {
	cutoff := s.now().Add(-s.retention).Unix()
	kept := s.records[:0]
	for _, r := range s.records {
		if r.Timestamp > cutoff {
			kept = append(kept, r)
		}
	}
	s.records = kept
}

// Reset empties the store and persists an empty history. Used by the
// scheduled history-clear job.
func (s *Store) Reset() error {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()

	return s.persist()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) persist() error {
	s.mu.RLock()
	records := make([]Record, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	if records == nil {
		records = []Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history dir: %w", err)
		}
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}

// Jaccard returns the similarity of two headlines: intersection over union
// of their normalized token sets. Symmetric; 0 when either side has no
// tokens left after normalization.
func Jaccard(a, b string) float64 {
	return jaccard(tokenSet(normalize(a)), tokenSet(normalize(b)))
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for token := range a {
		if b[token] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// normalize lowercases, strips punctuation, drops stop words and collapses
// whitespace so trivial rewording compares equal.
func normalize(headline string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(headline) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if !stopWords[w] {
			kept = append(kept, w)
		}
	}

	return strings.Join(kept, " ")
}

func tokenSet(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(normalized) {
		set[token] = true
	}
	return set
}
