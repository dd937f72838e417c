// Package redis implements domain.CacheStore on a Redis server using
// go-redis/v9. TTL is enforced server-side via key expiry; a side index set
// tracks live keys for status reporting.
package redis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/defijosh/ronintracker/internal/domain"
)

const (
	keyPrefix = "ronin:dataset:"
	indexKey  = "ronin:dataset:index"
)

// ClientConfig holds connection parameters for the Redis cache backend.
type ClientConfig struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	MaxRetries int
	TLSEnabled bool
}

// Store is a Redis-backed dataset cache. Connectivity errors and corrupt
// payloads degrade to cache misses, matching the file backend's semantics.
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis, pings it to verify connectivity, and returns the
// Store. Unlike reads and writes, a failed initial connection is an error:
// the operator asked for this backend explicitly.
func New(ctx context.Context, cfg ClientConfig, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	opts := &redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		PoolSize:   cfg.PoolSize,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("rediscache: ping: %w", err)
	}

	return &Store{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "rediscache")),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Get returns the cached dataset for key, or a miss on absence, expiry,
// connectivity failure, or corruption.
func (s *Store) Get(ctx context.Context, key string) (*domain.Dataset, bool) {
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "cache read failed, treating as miss",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
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

// Put writes the dataset with the configured TTL and records the key in the
// index hash. Failures are logged and swallowed.
func (s *Store) Put(ctx context.Context, key string, ds *domain.Dataset) error {
	raw, err := json.Marshal(ds)
	if err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}

	meta, _ := json.Marshal(domain.CacheEntryInfo{
		Key:       key,
		Rows:      len(ds.Rows),
		WrittenAt: time.Now().UTC(),
	})

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, keyPrefix+key, raw, s.ttl)
	pipe.HSet(ctx, indexKey, key, meta)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// Age derives the entry age from the remaining server-side TTL, or
// domain.AgeUnknown when the key is gone.
func (s *Store) Age(ctx context.Context, key string) time.Duration {
	remaining, err := s.rdb.TTL(ctx, keyPrefix+key).Result()
	if err != nil || remaining < 0 {
		return domain.AgeUnknown
	}
	return s.ttl - remaining
}

// Entries lists indexed entries sorted by key. Entries whose dataset key has
// expired are skipped.
func (s *Store) Entries(ctx context.Context) []domain.CacheEntryInfo {
	metas, err := s.rdb.HGetAll(ctx, indexKey).Result()
	if err != nil {
		s.logger.WarnContext(ctx, "cache index read failed", slog.String("error", err.Error()))
		return nil
	}

	out := make([]domain.CacheEntryInfo, 0, len(metas))
	for key, raw := range metas {
		if s.rdb.Exists(ctx, keyPrefix+key).Val() == 0 {
			continue
		}
		var info domain.CacheEntryInfo
		if err := json.Unmarshal([]byte(raw), &info); err != nil {
			continue
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
