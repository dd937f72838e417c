// Package service composes the gateway and analytics engine into the
// operations the API and refresh pipeline consume.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/defijosh/ronintracker/internal/analytics"
	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/gateway"
)

// DataSource resolves dataset keys to data. Implemented by gateway.Gateway.
type DataSource interface {
	FetchSnapshot(ctx context.Context) (*domain.Dataset, error)
	FetchQuery(ctx context.Context, key string) (*domain.Dataset, error)
}

// Bundle is one full load of every tracked dataset.
type Bundle struct {
	Snapshot *domain.MarketSnapshot
	Datasets map[string]*domain.Dataset
	LoadedAt time.Time
}

// IntelService loads datasets and computes the analytics scorecard.
type IntelService struct {
	source  DataSource
	cache   domain.CacheStore
	history domain.ScoreHistoryStore
	logger  *slog.Logger

	whaleThresholdUSD float64
	now               func() time.Time

	mu   sync.RWMutex
	last *Bundle
}

// NewIntelService creates an IntelService. history may be nil when no score
// database is configured.
func NewIntelService(
	source DataSource,
	cache domain.CacheStore,
	history domain.ScoreHistoryStore,
	whaleThresholdUSD float64,
	logger *slog.Logger,
) *IntelService {
	return &IntelService{
		source:            source,
		cache:             cache,
		history:           history,
		logger:            logger.With(slog.String("component", "intel_service")),
		whaleThresholdUSD: whaleThresholdUSD,
		now:               time.Now,
	}
}

// LoadAll fetches the market snapshot and every registered query dataset
// concurrently. The fetches touch disjoint cache keys, so they are safe to
// run in parallel. A degraded provider shows up as fallback data inside the
// bundle, never as an error; errors here mean cancellation.
func (s *IntelService) LoadAll(ctx context.Context) (*Bundle, error) {
	bundle := &Bundle{
		Datasets: make(map[string]*domain.Dataset),
		LoadedAt: s.now().UTC(),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ds, err := s.source.FetchSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("intel_service: load snapshot: %w", err)
		}
		mu.Lock()
		bundle.Snapshot = ds.Snapshot
		mu.Unlock()
		return nil
	})

	for _, key := range gateway.QueryKeys() {
		g.Go(func() error {
			ds, err := s.source.FetchQuery(ctx, key)
			if err != nil {
				return fmt.Errorf("intel_service: load %s: %w", key, err)
			}
			mu.Lock()
			bundle.Datasets[key] = ds
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = bundle
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "datasets loaded",
		slog.Int("datasets", len(bundle.Datasets)),
		slog.Bool("snapshot", bundle.Snapshot != nil),
	)
	return bundle, nil
}

// Dataset fetches a single dataset by key.
func (s *IntelService) Dataset(ctx context.Context, key string) (*domain.Dataset, error) {
	if key == gateway.SnapshotKey {
		return s.source.FetchSnapshot(ctx)
	}
	return s.source.FetchQuery(ctx, key)
}

// Snapshot fetches the RON market snapshot.
func (s *IntelService) Snapshot(ctx context.Context) (*domain.MarketSnapshot, error) {
	ds, err := s.source.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Snapshot, nil
}

// Scorecard loads every dataset and computes the full analytics scorecard.
func (s *IntelService) Scorecard(ctx context.Context) (*domain.Scorecard, error) {
	bundle, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.ScoreBundle(ctx, bundle), nil
}

// ScoreBundle computes the scorecard from an already loaded bundle. When a
// score history store is configured the summary is recorded best effort; a
// failed insert is logged, not returned.
func (s *IntelService) ScoreBundle(ctx context.Context, bundle *Bundle) *domain.Scorecard {
	daily := rowsOf(bundle, "ronin_daily_activity")
	games := rowsOf(bundle, "games_overall_activity")
	whales := rowsOf(bundle, "wron_whale_tracking")
	volume := rowsOf(bundle, "wron_volume_liquidity")
	retention := rowsOf(bundle, "user_activation_retention")
	nft := rowsOf(bundle, "nft_collections")

	card := &domain.Scorecard{
		Health:        analytics.NetworkHealth(daily, bundle.Snapshot),
		GameRanking:   analytics.RankGames(games),
		GameDominance: analytics.GameDominance(games),
		Retention:     analytics.Retention(retention),
		Whale:         analytics.WhaleImpact(whales, volume),
		Diversity:     analytics.Diversity(games),
		Sectors:       analytics.Sectors(games, volume, nft),
		Alerts:        analytics.WhaleAlerts(whales, s.whaleThresholdUSD, s.now().UTC()),
		ComputedAt:    s.now().UTC(),
	}

	if s.history != nil {
		if err := s.history.Record(ctx, card); err != nil {
			s.logger.WarnContext(ctx, "record score history", slog.Any("error", err))
		}
	}
	return card
}

// ScoreHistory returns the most recent persisted score snapshots, newest
// first. Without a configured store it returns an empty slice.
func (s *IntelService) ScoreHistory(ctx context.Context, limit int) ([]domain.ScoreSnapshot, error) {
	if s.history == nil {
		return []domain.ScoreSnapshot{}, nil
	}
	snaps, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("intel_service: score history: %w", err)
	}
	return snaps, nil
}

// DataStatus reports provenance and freshness per dataset from the last
// bundle, falling back to cache metadata for keys not loaded yet.
func (s *IntelService) DataStatus(ctx context.Context) []domain.SourceStatus {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	cached := make(map[string]domain.CacheEntryInfo)
	for _, e := range s.cache.Entries(ctx) {
		cached[e.Key] = e
	}

	keys := append([]string{gateway.SnapshotKey}, gateway.QueryKeys()...)
	statuses := make([]domain.SourceStatus, 0, len(keys))
	for _, key := range keys {
		st := domain.SourceStatus{Key: key}

		loaded := false
		if last != nil {
			if key == gateway.SnapshotKey && last.Snapshot != nil {
				st.Source = last.Snapshot.DataSource
				st.FetchedAt = last.Snapshot.LastUpdated
				loaded = true
			} else if ds := last.Datasets[key]; ds != nil {
				st.Source = ds.Source
				st.Rows = len(ds.Rows)
				st.FetchedAt = ds.FetchedAt
				loaded = true
			}
		}
		if !loaded {
			if entry, ok := cached[key]; ok {
				st.Source = domain.SourceCached
				st.Rows = entry.Rows
				st.FetchedAt = entry.WrittenAt
			}
		}

		if age := s.cache.Age(ctx, key); age != domain.AgeUnknown {
			st.AgeSeconds = int64(age.Seconds())
		} else {
			st.AgeSeconds = -1
		}
		statuses = append(statuses, st)
	}
	return statuses
}

func rowsOf(bundle *Bundle, key string) []domain.Row {
	if ds, ok := bundle.Datasets[key]; ok && ds != nil {
		return ds.Rows
	}
	return nil
}
