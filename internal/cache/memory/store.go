// Package memory implements domain.CacheStore as an in-process map. It backs
// tests and doubles as a cheap cache backend for ephemeral deployments where
// nothing should touch disk.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
)

type entry struct {
	ds        *domain.Dataset
	writtenAt time.Time
}

// Store is an in-memory TTL cache for datasets, safe for concurrent use.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// SetClock replaces the store's clock. Test helper.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Get returns a copy of the dataset for key if present and fresh.
func (s *Store) Get(ctx context.Context, key string) (*domain.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || s.now().Sub(e.writtenAt) >= s.ttl {
		return nil, false
	}

	out := e.ds.Clone()
	out.Source = domain.SourceCached
	if out.Snapshot != nil {
		out.Snapshot.DataSource = domain.SourceCached
	}
	return out, true
}

// Put stores a copy of the dataset under key.
func (s *Store) Put(ctx context.Context, key string, ds *domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{ds: ds.Clone(), writtenAt: s.now()}
	return nil
}

// Age returns the entry age, or domain.AgeUnknown when absent.
func (s *Store) Age(ctx context.Context, key string) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return domain.AgeUnknown
	}
	return s.now().Sub(e.writtenAt)
}

// Entries lists cached entries sorted by key.
func (s *Store) Entries(ctx context.Context) []domain.CacheEntryInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CacheEntryInfo, 0, len(s.entries))
	for k, e := range s.entries {
		out = append(out, domain.CacheEntryInfo{
			Key:       k,
			Rows:      len(e.ds.Rows),
			WrittenAt: e.writtenAt.UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
