// Package file implements domain.CacheStore on the local filesystem: one
// JSON file per dataset key under a fixed directory, named by the MD5 hash of
// the key so arbitrary key strings map to safe, collision-free filenames.
// Entry age is derived from the file's modification time.
package file

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
)

const indexFile = "index.json"

// Store is a TTL-gated file cache for datasets. All read failures, including
// corrupt entries, degrade to cache misses; all write failures are logged and
// swallowed so a broken disk never takes the tracker down.
type Store struct {
	dir    string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	// mu guards the side-car index; dataset files themselves are written
	// atomically via rename and tolerate cross-process last-writer-wins.
	mu    sync.Mutex
	index map[string]domain.CacheEntryInfo
}

// New creates a Store rooted at dir, creating the directory if needed. The
// side-car index is loaded best-effort: a corrupt index is discarded and
// rebuilt as entries are written.
func New(dir string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filecache: create dir %s: %w", dir, err)
	}
	s := &Store{
		dir:    dir,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "filecache")),
		now:    time.Now,
		index:  make(map[string]domain.CacheEntryInfo),
	}
	s.loadIndex()
	return s, nil
}

// path returns the dataset file location for a key.
func (s *Store) path(key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Get returns the cached dataset for key if the entry exists, is readable,
// and is younger than the TTL. Everything else is a miss.
func (s *Store) Get(ctx context.Context, key string) (*domain.Dataset, bool) {
	p := s.path(key)

	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if s.now().Sub(info.ModTime()) >= s.ttl {
		return nil, false
	}

	raw, err := os.ReadFile(p)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	var ds domain.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		s.logger.WarnContext(ctx, "cache entry corrupt, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	ds.Source = domain.SourceCached
	if ds.Snapshot != nil {
		ds.Snapshot.DataSource = domain.SourceCached
	}
	return &ds, true
}

// Put serializes the dataset and replaces the entry for key atomically via a
// temp-file rename. A failed write is logged and swallowed: the caller simply
// re-fetches next time.
func (s *Store) Put(ctx context.Context, key string, ds *domain.Dataset) error {
	raw, err := json.Marshal(ds)
	if err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}

	p := s.path(key)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}

	s.mu.Lock()
	s.index[key] = domain.CacheEntryInfo{
		Key:       key,
		Rows:      len(ds.Rows),
		WrittenAt: s.now().UTC(),
	}
	s.writeIndexLocked(ctx)
	s.mu.Unlock()

	return nil
}

// Age returns how long ago the entry for key was written, or
// domain.AgeUnknown when no entry exists.
func (s *Store) Age(ctx context.Context, key string) time.Duration {
	info, err := os.Stat(s.path(key))
	if err != nil {
		return domain.AgeUnknown
	}
	return s.now().Sub(info.ModTime())
}

// Entries lists every indexed entry sorted by key, for status reporting.
func (s *Store) Entries(ctx context.Context) []domain.CacheEntryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CacheEntryInfo, 0, len(s.index))
	for _, e := range s.index {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// loadIndex reads the side-car index best-effort.
func (s *Store) loadIndex() {
	raw, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		return
	}
	var entries []domain.CacheEntryInfo
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("cache index corrupt, rebuilding", slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		s.index[e.Key] = e
	}
}

// writeIndexLocked persists the side-car index. Failures are logged only.
func (s *Store) writeIndexLocked(ctx context.Context) {
	entries := make([]domain.CacheEntryInfo, 0, len(s.index))
	for _, e := range s.index {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexFile), raw, 0o644); err != nil {
		s.logger.WarnContext(ctx, "cache index write failed", slog.String("error", err.Error()))
	}
}
