package pipeline

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/service"
)

type fakeLoader struct {
	bundle *service.Bundle
	card   *domain.Scorecard
	loads  int
}

func (f *fakeLoader) LoadAll(ctx context.Context) (*service.Bundle, error) {
	f.loads++
	return f.bundle, nil
}

func (f *fakeLoader) ScoreBundle(ctx context.Context, bundle *service.Bundle) *domain.Scorecard {
	return f.card
}

type fakeArchiver struct {
	paths []string
}

func (f *fakeArchiver) ArchiveDataset(ctx context.Context, ds *domain.Dataset) (string, error) {
	path := "datasets/" + ds.Key
	f.paths = append(f.paths, path)
	return path, nil
}

type fakeAlerter struct {
	healthCalls int
	whaleCalls  int
}

func (f *fakeAlerter) HealthAlert(ctx context.Context, h domain.HealthScore) error {
	f.healthCalls++
	return nil
}

func (f *fakeAlerter) WhaleAlerts(ctx context.Context, alerts []domain.WhaleAlert) error {
	f.whaleCalls++
	return nil
}

type fakePublisher struct {
	cards []*domain.Scorecard
}

func (f *fakePublisher) PublishScorecard(card *domain.Scorecard) {
	f.cards = append(f.cards, card)
}

func testBundle() *service.Bundle {
	return &service.Bundle{
		Datasets: map[string]*domain.Dataset{
			"ronin_daily_activity": {Key: "ronin_daily_activity", Source: domain.SourceLive},
			"wron_whale_tracking":  {Key: "wron_whale_tracking", Source: domain.SourceFallback},
			"nft_collections":      {Key: "nft_collections", Source: domain.SourceCached},
		},
		LoadedAt: time.Now(),
	}
}

func TestRunArchivesOnlyLiveDatasets(t *testing.T) {
	loader := &fakeLoader{
		bundle: testBundle(),
		card:   &domain.Scorecard{Health: domain.HealthScore{Score: 90, Status: "Healthy"}},
	}
	archiver := &fakeArchiver{}
	r := NewRefresher(loader, archiver, nil, nil, slog.New(slog.DiscardHandler))

	require.NoError(t, r.Run(context.Background()))
	require.Len(t, archiver.paths, 1)
	assert.Equal(t, "datasets/ronin_daily_activity", archiver.paths[0])
}

func TestRunAlertsOnDegradedHealth(t *testing.T) {
	loader := &fakeLoader{
		bundle: testBundle(),
		card: &domain.Scorecard{
			Health: domain.HealthScore{Score: 35, Status: "Critical"},
			Alerts: []domain.WhaleAlert{{Type: "whale_activity", VolumeUSD: 80_000}},
		},
	}
	alerter := &fakeAlerter{}
	r := NewRefresher(loader, nil, alerter, nil, slog.New(slog.DiscardHandler))

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 1, alerter.healthCalls)
	assert.Equal(t, 1, alerter.whaleCalls)
}

func TestRunNoAlertsWhenHealthy(t *testing.T) {
	loader := &fakeLoader{
		bundle: testBundle(),
		card:   &domain.Scorecard{Health: domain.HealthScore{Score: 85, Status: "Healthy"}},
	}
	alerter := &fakeAlerter{}
	r := NewRefresher(loader, nil, alerter, nil, slog.New(slog.DiscardHandler))

	require.NoError(t, r.Run(context.Background()))
	assert.Zero(t, alerter.healthCalls)
	assert.Zero(t, alerter.whaleCalls)
}

func TestRunNeutralScoreDoesNotAlert(t *testing.T) {
	loader := &fakeLoader{
		bundle: testBundle(),
		card:   &domain.Scorecard{Health: domain.HealthScore{Score: 50, Status: "No Data"}},
	}
	alerter := &fakeAlerter{}
	r := NewRefresher(loader, nil, alerter, nil, slog.New(slog.DiscardHandler))

	require.NoError(t, r.Run(context.Background()))
	assert.Zero(t, alerter.healthCalls)
}

func TestRunPublishesScorecard(t *testing.T) {
	card := &domain.Scorecard{Health: domain.HealthScore{Score: 85, Status: "Healthy"}}
	loader := &fakeLoader{bundle: testBundle(), card: card}
	publisher := &fakePublisher{}
	r := NewRefresher(loader, nil, nil, publisher, slog.New(slog.DiscardHandler))

	require.NoError(t, r.Run(context.Background()))
	require.Len(t, publisher.cards, 1)
	assert.Same(t, card, publisher.cards[0])
}

func TestRunLoopStopsOnCancel(t *testing.T) {
	loader := &fakeLoader{
		bundle: testBundle(),
		card:   &domain.Scorecard{Health: domain.HealthScore{Score: 90, Status: "Healthy"}},
	}
	r := NewRefresher(loader, nil, nil, nil, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.RunLoop(ctx, time.Hour) }()

	// The loop runs once immediately, then waits on the ticker.
	assert.Eventually(t, func() bool { return loader.loads >= 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("RunLoop did not stop after cancellation")
	}
}
