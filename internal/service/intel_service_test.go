package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defijosh/ronintracker/internal/cache/memory"
	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/gateway"
)

// fallbackSource serves the deterministic fallback data without any provider
// round-trips, which is exactly what the service sees in degraded mode.
type fallbackSource struct {
	now time.Time
}

func (f *fallbackSource) FetchSnapshot(ctx context.Context) (*domain.Dataset, error) {
	return &domain.Dataset{
		Key:       gateway.SnapshotKey,
		Snapshot:  gateway.FallbackSnapshot(f.now),
		Source:    domain.SourceFallback,
		FetchedAt: f.now,
	}, nil
}

func (f *fallbackSource) FetchQuery(ctx context.Context, key string) (*domain.Dataset, error) {
	return gateway.FallbackTable(key, f.now), nil
}

type recordingHistory struct {
	cards []*domain.Scorecard
}

func (r *recordingHistory) Record(ctx context.Context, sc *domain.Scorecard) error {
	r.cards = append(r.cards, sc)
	return nil
}

func (r *recordingHistory) ListRecent(ctx context.Context, limit int) ([]domain.ScoreSnapshot, error) {
	return nil, nil
}

func newTestService(history domain.ScoreHistoryStore) *IntelService {
	src := &fallbackSource{now: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)}
	return NewIntelService(src, memory.New(time.Hour), history, 50_000, slog.New(slog.DiscardHandler))
}

func TestLoadAllFetchesEveryDataset(t *testing.T) {
	svc := newTestService(nil)

	bundle, err := svc.LoadAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, bundle.Snapshot)
	assert.Len(t, bundle.Datasets, len(gateway.QueryKeys()))
	for _, key := range gateway.QueryKeys() {
		assert.Contains(t, bundle.Datasets, key)
	}
}

func TestScorecardComputesAllSections(t *testing.T) {
	history := &recordingHistory{}
	svc := newTestService(history)

	card, err := svc.Scorecard(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, card.Health.Score, 0.0)
	assert.LessOrEqual(t, card.Health.Score, 100.0)
	assert.NotEmpty(t, card.GameRanking)
	assert.Greater(t, card.GameDominance, 0.0)
	assert.NotEmpty(t, card.Retention)
	assert.Greater(t, card.Whale.Score, 0.0)
	assert.Greater(t, card.Diversity.Score, 0.0)
	assert.False(t, card.ComputedAt.IsZero())

	require.Len(t, history.cards, 1)
	assert.Equal(t, card, history.cards[0])
}

func TestDatasetRoutesSnapshotKey(t *testing.T) {
	svc := newTestService(nil)

	ds, err := svc.Dataset(context.Background(), gateway.SnapshotKey)
	require.NoError(t, err)
	assert.NotNil(t, ds.Snapshot)

	table, err := svc.Dataset(context.Background(), "ronin_daily_activity")
	require.NoError(t, err)
	assert.NotEmpty(t, table.Rows)
}

func TestDataStatusUsesCacheMetadataBeforeFirstLoad(t *testing.T) {
	store := memory.New(time.Hour)
	written := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(context.Background(), "ronin_daily_activity", &domain.Dataset{
		Key:       "ronin_daily_activity",
		Rows:      []domain.Row{{"date": "2026-08-28T00:00:00Z"}},
		Source:    domain.SourceLive,
		FetchedAt: written,
	}))
	src := &fallbackSource{now: written}
	svc := NewIntelService(src, store, nil, 50_000, slog.New(slog.DiscardHandler))

	statuses := svc.DataStatus(context.Background())
	byKey := make(map[string]domain.SourceStatus, len(statuses))
	for _, st := range statuses {
		byKey[st.Key] = st
	}

	st := byKey["ronin_daily_activity"]
	assert.Equal(t, domain.SourceCached, st.Source)
	assert.Equal(t, 1, st.Rows)
	assert.False(t, st.FetchedAt.IsZero())

	// Keys never fetched or cached report no entry at all.
	assert.Equal(t, int64(-1), byKey["wron_whale_tracking"].AgeSeconds)
	assert.Equal(t, domain.Provenance(""), byKey["wron_whale_tracking"].Source)
}

func TestDataStatusCoversAllKeys(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.LoadAll(context.Background())
	require.NoError(t, err)

	statuses := svc.DataStatus(context.Background())
	require.Len(t, statuses, len(gateway.QueryKeys())+1)
	for _, st := range statuses {
		assert.Equal(t, domain.SourceFallback, st.Source, st.Key)
		// Nothing cached in the fallback path.
		assert.Equal(t, int64(-1), st.AgeSeconds, st.Key)
	}
}
