package domain

import (
	"context"
	"math"
	"time"
)

// AgeUnknown is returned by CacheStore.Age when no entry exists for a key.
// It compares greater than any configurable TTL.
const AgeUnknown = time.Duration(math.MaxInt64)

// CacheEntryInfo describes one cached dataset for status reporting.
type CacheEntryInfo struct {
	Key       string    `json:"key"`
	Rows      int       `json:"rows"`
	WrittenAt time.Time `json:"written_at"`
}

// SourceStatus reports the provenance and freshness of one dataset.
// AgeSeconds is -1 when the dataset has no cache entry.
type SourceStatus struct {
	Key        string     `json:"key"`
	Source     Provenance `json:"source"`
	Rows       int        `json:"rows"`
	AgeSeconds int64      `json:"age_seconds"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// CacheStore is TTL-gated persistence for named datasets.
//
// Get returns (nil, false) when the entry is absent, older than the TTL, or
// unreadable; cache corruption is never surfaced as an error. Put replaces
// the entry wholesale; a failed write is logged by the implementation and
// degrades to a miss on the next Get. Age returns AgeUnknown when no entry
// exists.
type CacheStore interface {
	Get(ctx context.Context, key string) (*Dataset, bool)
	Put(ctx context.Context, key string, ds *Dataset) error
	Age(ctx context.Context, key string) time.Duration
	Entries(ctx context.Context) []CacheEntryInfo
}

// ScoreHistoryStore persists computed scorecard summaries so the dashboard
// can show score trends over time. Optional: wired only when a database is
// configured.
type ScoreHistoryStore interface {
	Record(ctx context.Context, sc *Scorecard) error
	ListRecent(ctx context.Context, limit int) ([]ScoreSnapshot, error)
}

// ScoreSnapshot is one persisted row of score history.
type ScoreSnapshot struct {
	HealthScore   float64   `json:"health_score"`
	HealthStatus  string    `json:"health_status"`
	WhaleImpact   float64   `json:"whale_impact"`
	Diversity     float64   `json:"diversity"`
	GameDominance float64   `json:"game_dominance"`
	ComputedAt    time.Time `json:"computed_at"`
}
