package in_memory

import (
	"context"
	"sync"

	"github.com/huashen/exchange-core/internal/domain"
)

// JournalEntry is one committed submit outcome.
type JournalEntry struct {
	Order  *domain.Order
	Result *domain.MatchResult
}

// Journal keeps the append stream in memory, used by tests and by the
// server when no database is configured.
type Journal struct {
	mu      sync.Mutex
	entries []JournalEntry
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) Append(ctx context.Context, o *domain.Order, res *domain.MatchResult) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, JournalEntry{Order: o, Result: res})
	return nil
}

func (j *Journal) Entries() []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]JournalEntry, len(j.entries))
	copy(out, j.entries)
	return out
}
