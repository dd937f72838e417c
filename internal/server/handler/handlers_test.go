package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/gateway"
)

type fakeService struct {
	card     *domain.Scorecard
	cardErr  error
	history  []domain.ScoreSnapshot
	datasets map[string]*domain.Dataset
	snapshot *domain.MarketSnapshot
	statuses []domain.SourceStatus
}

func (f *fakeService) Scorecard(ctx context.Context) (*domain.Scorecard, error) {
	return f.card, f.cardErr
}

func (f *fakeService) ScoreHistory(ctx context.Context, limit int) ([]domain.ScoreSnapshot, error) {
	if limit < len(f.history) {
		return f.history[:limit], nil
	}
	return f.history, nil
}

func (f *fakeService) Dataset(ctx context.Context, key string) (*domain.Dataset, error) {
	ds, ok := f.datasets[key]
	if !ok {
		return nil, domain.ErrUnknownDataset
	}
	return ds, nil
}

func (f *fakeService) Snapshot(ctx context.Context) (*domain.MarketSnapshot, error) {
	return f.snapshot, nil
}

func (f *fakeService) DataStatus(ctx context.Context) []domain.SourceStatus {
	return f.statuses
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestGetScorecard(t *testing.T) {
	svc := &fakeService{card: &domain.Scorecard{
		Health:     domain.HealthScore{Score: 87, Status: "Healthy"},
		ComputedAt: time.Now().UTC(),
	}}
	h := NewScoresHandler(svc, discard())

	rec := httptest.NewRecorder()
	h.GetScorecard(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var card domain.Scorecard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.Equal(t, 87.0, card.Health.Score)
	assert.Equal(t, "Healthy", card.Health.Status)
}

func TestGetScorecardError(t *testing.T) {
	svc := &fakeService{cardErr: assert.AnError}
	h := NewScoresHandler(svc, discard())

	rec := httptest.NewRecorder()
	h.GetScorecard(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestGetHistoryAppliesLimit(t *testing.T) {
	history := make([]domain.ScoreSnapshot, 10)
	for i := range history {
		history[i] = domain.ScoreSnapshot{HealthScore: float64(i)}
	}
	svc := &fakeService{history: history}
	h := NewScoresHandler(svc, discard())

	rec := httptest.NewRecorder()
	h.GetHistory(rec, httptest.NewRequest(http.MethodGet, "/api/scores/history?limit=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.History, 3)
	assert.Equal(t, 3, resp.Limit)
}

func TestGetHistoryEmptyIsNotNull(t *testing.T) {
	h := NewScoresHandler(&fakeService{}, discard())

	rec := httptest.NewRecorder()
	h.GetHistory(rec, httptest.NewRequest(http.MethodGet, "/api/scores/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"history":[]`)
}

func TestListDatasetsIncludesSnapshotKey(t *testing.T) {
	h := NewDatasetHandler(&fakeService{}, discard())

	rec := httptest.NewRecorder()
	h.ListDatasets(rec, httptest.NewRequest(http.MethodGet, "/api/datasets", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp listDatasetsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Keys, gateway.SnapshotKey)
	assert.Contains(t, resp.Keys, "ronin_daily_activity")
	assert.Len(t, resp.Keys, 1+len(gateway.QueryKeys()))
}

func TestGetDataset(t *testing.T) {
	svc := &fakeService{datasets: map[string]*domain.Dataset{
		"ronin_daily_activity": {
			Key:    "ronin_daily_activity",
			Source: domain.SourceFallback,
			Rows:   []domain.Row{{"date": "2026-08-01T00:00:00Z"}},
		},
	}}
	h := NewDatasetHandler(svc, discard())

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/ronin_daily_activity", nil)
	req.SetPathValue("key", "ronin_daily_activity")

	rec := httptest.NewRecorder()
	h.GetDataset(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var ds domain.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	assert.Equal(t, "ronin_daily_activity", ds.Key)
	assert.Len(t, ds.Rows, 1)
}

func TestGetDatasetUnknownKey(t *testing.T) {
	h := NewDatasetHandler(&fakeService{}, discard())

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/nope", nil)
	req.SetPathValue("key", "nope")

	rec := httptest.NewRecorder()
	h.GetDataset(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSnapshot(t *testing.T) {
	svc := &fakeService{snapshot: &domain.MarketSnapshot{
		PriceUSD:   2.15,
		DataSource: domain.SourceFallback,
	}}
	h := NewDatasetHandler(svc, discard())

	rec := httptest.NewRecorder()
	h.GetSnapshot(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var snap domain.MarketSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 2.15, snap.PriceUSD)
}

func TestGetStatus(t *testing.T) {
	svc := &fakeService{statuses: []domain.SourceStatus{
		{Key: "ronin_daily_activity", Source: domain.SourceCached, Rows: 30, AgeSeconds: 120},
	}}
	h := NewStatusHandler(svc, "serve", time.Now().Add(-90*time.Second))

	rec := httptest.NewRecorder()
	h.GetStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "serve", resp.Mode)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, int64(90))
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, domain.SourceCached, resp.Sources[0].Source)
}

type fakeLister struct {
	prefix string
	infos  []domain.BlobInfo
}

func (f *fakeLister) List(ctx context.Context, prefix string) ([]domain.BlobInfo, error) {
	f.prefix = prefix
	return f.infos, nil
}

func TestListArchives(t *testing.T) {
	lister := &fakeLister{infos: []domain.BlobInfo{
		{Path: "datasets/ronin_daily_activity/2026-08-29T12-00-00Z.json.gz", Size: 2048},
	}}
	h := NewArchivesHandler(lister, "datasets", discard())

	req := httptest.NewRequest(http.MethodGet, "/api/archives/ronin_daily_activity", nil)
	req.SetPathValue("key", "ronin_daily_activity")

	rec := httptest.NewRecorder()
	h.ListArchives(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "datasets/ronin_daily_activity/", lister.prefix)

	var resp listArchivesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Archives, 1)
	assert.Equal(t, int64(2048), resp.Archives[0].Size)
}

func TestListArchivesUnknownKey(t *testing.T) {
	h := NewArchivesHandler(&fakeLister{}, "datasets", discard())

	req := httptest.NewRequest(http.MethodGet, "/api/archives/nope", nil)
	req.SetPathValue("key", "nope")

	rec := httptest.NewRecorder()
	h.ListArchives(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler()

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
