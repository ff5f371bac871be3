package history

import (
	"context"
	"sync"

	"songfinder/lyricsearch/internal/domain"
)

// MemoryStore keeps the newest maxItems entries in a ring buffer. Oldest
// entries are evicted first.
type MemoryStore struct {
	mu       sync.RWMutex
	items    []domain.HistoryEntry
	next     int
	count    int
	maxItems int
}

func NewMemoryStore(maxItems int) *MemoryStore {
	if maxItems <= 0 {
		maxItems = domain.DefaultHistoryMaxItems
	}
	return &MemoryStore{
		items:    make([]domain.HistoryEntry, maxItems),
		maxItems: maxItems,
	}
}

func (s *MemoryStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[s.next] = cloneEntry(entry)
	s.next = (s.next + 1) % s.maxItems
	if s.count < s.maxItems {
		s.count++
	}
	return nil
}

// List returns up to limit entries, newest first. limit <= 0 means all.
func (s *MemoryStore) List(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.HistoryEntry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + s.maxItems) % s.maxItems
		out = append(out, cloneEntry(s.items[idx]))
	}
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
	s.next = 0
	s.count = 0
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneEntry(entry domain.HistoryEntry) domain.HistoryEntry {
	if entry.Result != nil {
		result := *entry.Result
		entry.Result = &result
	}
	return entry
}
