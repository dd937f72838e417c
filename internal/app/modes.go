package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/defijosh/ronintracker/internal/pipeline"
	"github.com/defijosh/ronintracker/internal/server"
	"github.com/defijosh/ronintracker/internal/server/handler"
	"github.com/defijosh/ronintracker/internal/server/ws"
)

// shutdownGrace is how long in-flight HTTP requests get to finish.
const shutdownGrace = 10 * time.Second

// ServeMode runs the HTTP + WebSocket API without the background refresh
// loop. Datasets are fetched on demand and served from cache within the TTL.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)
	return g.Wait()
}

// RefreshMode runs the periodic refresh pipeline headlessly: warm the cache,
// archive live datasets, raise alerts. No HTTP server.
func (a *App) RefreshMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting refresh mode",
		slog.Duration("interval", a.cfg.Refresh.Interval),
	)

	refresher := a.newRefresher(deps, nil)
	return refresher.RunLoop(ctx, a.cfg.Refresh.Interval)
}

// ScoresMode computes one scorecard and writes it to stdout as JSON. Useful
// for cron jobs and ad-hoc inspection.
func (a *App) ScoresMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scores mode")

	card, err := deps.Intel.Scorecard(ctx)
	if err != nil {
		return fmt.Errorf("app: compute scorecard: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(card); err != nil {
		return fmt.Errorf("app: encode scorecard: %w", err)
	}
	return nil
}

// FullMode runs the API server and the refresh pipeline together. The hub
// receives every recomputed scorecard so connected dashboards update live.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	hub := a.startHTTPServer(ctx, g, deps)

	refresher := a.newRefresher(deps, hub)
	g.Go(func() error {
		return refresher.RunLoop(ctx, a.cfg.Refresh.Interval)
	})

	return g.Wait()
}

// newRefresher assembles the refresh pipeline from the wired dependencies.
// publisher may be nil when no WebSocket hub is running.
func (a *App) newRefresher(deps *Dependencies, publisher pipeline.Publisher) *pipeline.Refresher {
	var alerter pipeline.Alerter
	if deps.Notifier != nil && deps.Notifier.HasSenders() {
		alerter = deps.Notifier
	}
	return pipeline.NewRefresher(deps.Intel, deps.Archiver, alerter, publisher, a.logger)
}

// startHTTPServer registers all routes, starts the WebSocket hub and the
// HTTP listener on the errgroup, and returns the hub for publishing.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) *ws.Hub {
	hub := ws.NewHub(a.logger, ws.Config{
		Mode:      a.cfg.Mode,
		StartedAt: time.Now().UTC(),
	})
	g.Go(func() error {
		return hub.Run(ctx)
	})

	handlers := server.Handlers{
		Health:   handler.NewHealthHandler(),
		Scores:   handler.NewScoresHandler(deps.Intel, a.logger),
		Datasets: handler.NewDatasetHandler(deps.Intel, a.logger),
		Status:   handler.NewStatusHandler(deps.Intel, a.cfg.Mode, time.Now().UTC()),
	}
	if deps.Blobs != nil {
		handlers.Archives = handler.NewArchivesHandler(deps.Blobs, "datasets", a.logger)
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimit:   a.cfg.Server.RateLimit,
	}, handlers, hub, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("server shutdown failed", slog.String("error", err.Error()))
		}
		return ctx.Err()
	})

	return hub
}
