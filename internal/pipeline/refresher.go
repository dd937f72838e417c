// Package pipeline runs the periodic background jobs: refreshing every
// tracked dataset, archiving refreshed data to blob storage, and raising
// alerts from the recomputed scorecard.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/service"
)

// DatasetLoader loads every tracked dataset and scores the result.
type DatasetLoader interface {
	LoadAll(ctx context.Context) (*service.Bundle, error)
	ScoreBundle(ctx context.Context, bundle *service.Bundle) *domain.Scorecard
}

// Alerter receives scorecard-driven notifications.
type Alerter interface {
	HealthAlert(ctx context.Context, health domain.HealthScore) error
	WhaleAlerts(ctx context.Context, alerts []domain.WhaleAlert) error
}

// Publisher pushes recomputed scorecards to connected dashboard clients.
type Publisher interface {
	PublishScorecard(card *domain.Scorecard)
}

// Refresher periodically reloads all datasets so the cache stays warm, and
// fans the results out to the archiver, alert channels, and live clients.
type Refresher struct {
	loader    DatasetLoader
	archiver  domain.DatasetArchiver
	alerter   Alerter
	publisher Publisher
	logger    *slog.Logger
}

// NewRefresher creates a Refresher. archiver, alerter, and publisher may be
// nil to disable their respective fan-outs.
func NewRefresher(loader DatasetLoader, archiver domain.DatasetArchiver, alerter Alerter, publisher Publisher, logger *slog.Logger) *Refresher {
	return &Refresher{
		loader:    loader,
		archiver:  archiver,
		alerter:   alerter,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "refresher")),
	}
}

// Run executes a single refresh: load everything, archive live datasets, and
// alert on the recomputed scorecard. Degraded providers are not errors here;
// only cancellation aborts a run.
func (r *Refresher) Run(ctx context.Context) error {
	started := time.Now()

	bundle, err := r.loader.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: refresh datasets: %w", err)
	}

	archived := 0
	if r.archiver != nil {
		for key, ds := range bundle.Datasets {
			// Fallback and cache hits carry nothing new worth archiving.
			if ds.Source != domain.SourceLive {
				continue
			}
			path, err := r.archiver.ArchiveDataset(ctx, ds)
			if err != nil {
				r.logger.WarnContext(ctx, "archive dataset failed",
					slog.String("dataset", key),
					slog.Any("error", err),
				)
				continue
			}
			archived++
			r.logger.DebugContext(ctx, "archived dataset",
				slog.String("dataset", key),
				slog.String("path", path),
			)
		}
	}

	card := r.loader.ScoreBundle(ctx, bundle)
	r.notify(ctx, card)
	if r.publisher != nil {
		r.publisher.PublishScorecard(card)
	}

	r.logger.InfoContext(ctx, "refresh complete",
		slog.Int("datasets", len(bundle.Datasets)),
		slog.Int("archived", archived),
		slog.Float64("health_score", card.Health.Score),
		slog.String("health_status", card.Health.Status),
		slog.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// notify forwards alert-worthy scorecard results. Delivery failures are
// logged; alerting never fails a refresh.
func (r *Refresher) notify(ctx context.Context, card *domain.Scorecard) {
	if r.alerter == nil {
		return
	}

	if card.Health.Score < 60 && card.Health.Status != "No Data" {
		if err := r.alerter.HealthAlert(ctx, card.Health); err != nil {
			r.logger.WarnContext(ctx, "health alert failed", slog.Any("error", err))
		}
	}
	if len(card.Alerts) > 0 {
		if err := r.alerter.WhaleAlerts(ctx, card.Alerts); err != nil {
			r.logger.WarnContext(ctx, "whale alert failed", slog.Any("error", err))
		}
	}
}

// RunLoop refreshes immediately and then on every interval tick until the
// context is cancelled.
func (r *Refresher) RunLoop(ctx context.Context, interval time.Duration) error {
	if err := r.Run(ctx); err != nil {
		r.logger.Error("refresh failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := r.Run(ctx); err != nil {
				r.logger.Error("refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}
