// Package server exposes the HTTP + WebSocket API for the tracker.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/defijosh/ronintracker/internal/server/handler"
	"github.com/defijosh/ronintracker/internal/server/middleware"
	"github.com/defijosh/ronintracker/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled
	RateLimit   int    // requests per minute per client, 0 disables
}

// Handlers aggregates all HTTP handlers that the server needs to register.
// Archives may be nil when object storage is not configured.
type Handlers struct {
	Health   *handler.HealthHandler
	Scores   *handler.ScoresHandler
	Datasets *handler.DatasetHandler
	Status   *handler.StatusHandler
	Archives *handler.ArchivesHandler
}

// Server is the headless HTTP + WebSocket API server for the tracker.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (rate limiting, auth, logging, CORS) and attaches
// the WebSocket hub.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Liveness endpoint.
	mux.HandleFunc("GET /healthz", handlers.Health.HealthCheck)

	// Scorecard endpoints.
	mux.HandleFunc("GET /api/scores", handlers.Scores.GetScorecard)
	mux.HandleFunc("GET /api/scores/history", handlers.Scores.GetHistory)

	// Dataset endpoints.
	mux.HandleFunc("GET /api/datasets", handlers.Datasets.ListDatasets)
	mux.HandleFunc("GET /api/datasets/{key}", handlers.Datasets.GetDataset)
	mux.HandleFunc("GET /api/snapshot", handlers.Datasets.GetSnapshot)

	// Provenance and freshness report.
	mux.HandleFunc("GET /api/status", handlers.Status.GetStatus)

	// Archived dataset listing, only when object storage is wired.
	if handlers.Archives != nil {
		mux.HandleFunc("GET /api/archives/{key}", handlers.Archives.ListArchives)
	}

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain, innermost first.
	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.RateLimit(cfg.RateLimit, time.Minute)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
