package file

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defijosh/ronintracker/internal/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := New(t.TempDir(), ttl, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return s
}

func sampleDataset(key string) *domain.Dataset {
	return &domain.Dataset{
		Key:     key,
		Columns: []string{"date", "daily_transactions"},
		Rows: []domain.Row{
			{"date": "2025-08-01T00:00:00Z", "daily_transactions": float64(120000)},
			{"date": "2025-08-02T00:00:00Z", "daily_transactions": float64(130000)},
		},
		Source:    domain.SourceLive,
		FetchedAt: time.Date(2025, 8, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestPutThenGetWithinTTL(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	want := sampleDataset("ronin_daily_activity")
	require.NoError(t, s.Put(ctx, "ronin_daily_activity", want))

	got, ok := s.Get(ctx, "ronin_daily_activity")
	require.True(t, ok)
	assert.Equal(t, want.Key, got.Key)
	assert.Equal(t, want.Columns, got.Columns)
	assert.Equal(t, want.Rows, got.Rows)
	assert.Equal(t, domain.SourceCached, got.Source)
}

func TestGetMissesAfterTTL(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", sampleDataset("k")))

	// Advance the store clock past the TTL instead of sleeping.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", sampleDataset("k")))

	// Scribble over the entry on disk.
	sum := md5.Sum([]byte("k"))
	p := filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o644))

	got, ok := s.Get(ctx, "k")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestAgeUnknownForAbsentKey(t *testing.T) {
	s := newTestStore(t, time.Hour)
	assert.Equal(t, domain.AgeUnknown, s.Age(context.Background(), "nope"))
}

func TestAgeGrowsForPresentKey(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "k", sampleDataset("k")))

	s.now = func() time.Time { return time.Now().Add(30 * time.Minute) }

	age := s.Age(ctx, "k")
	assert.Greater(t, age, 29*time.Minute)
	assert.Less(t, age, domain.AgeUnknown)
}

func TestKeyHashingKeepsArbitraryKeysSafe(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	weird := "WRON_Trading_Volume_&_Liquidity/Flow on Katana?"
	require.NoError(t, s.Put(ctx, weird, sampleDataset(weird)))

	got, ok := s.Get(ctx, weird)
	require.True(t, ok)
	assert.Equal(t, weird, got.Key)
}

func TestZeroRowDatasetRoundTrips(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	empty := &domain.Dataset{
		Key:     "wron_whale_tracking",
		Columns: []string{"trader_address", "total_volume_usd"},
		Rows:    []domain.Row{},
		Source:  domain.SourceLive,
	}
	require.NoError(t, s.Put(ctx, empty.Key, empty))

	got, ok := s.Get(ctx, empty.Key)
	require.True(t, ok)
	assert.Empty(t, got.Rows)
}

func TestEntriesReportsRowCounts(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "b", sampleDataset("b")))
	require.NoError(t, s.Put(ctx, "a", sampleDataset("a")))

	entries := s.Entries(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, 2, entries[0].Rows)
	assert.Equal(t, "b", entries[1].Key)
}

func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	s1, err := New(dir, time.Hour, logger)
	require.NoError(t, err)
	require.NoError(t, s1.Put(ctx, "k", sampleDataset("k")))

	s2, err := New(dir, time.Hour, logger)
	require.NoError(t, err)
	entries := s2.Entries(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "k", entries[0].Key)
}
