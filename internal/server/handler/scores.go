package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/defijosh/ronintracker/internal/domain"
)

// ScoreService defines the methods the scores handler requires from the
// service layer. It is declared locally so the handler package does not
// depend on the concrete service implementation.
type ScoreService interface {
	Scorecard(ctx context.Context) (*domain.Scorecard, error)
	ScoreHistory(ctx context.Context, limit int) ([]domain.ScoreSnapshot, error)
}

// ScoresHandler serves the analytics scorecard endpoints.
type ScoresHandler struct {
	svc    ScoreService
	logger *slog.Logger
}

// NewScoresHandler creates a ScoresHandler with the given service and logger.
func NewScoresHandler(svc ScoreService, logger *slog.Logger) *ScoresHandler {
	return &ScoresHandler{svc: svc, logger: logger}
}

// GetScorecard computes and returns the full ecosystem scorecard.
// GET /api/scores
func (h *ScoresHandler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.Scorecard(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: scorecard failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to compute scorecard")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// historyResponse wraps the score history endpoint output.
type historyResponse struct {
	History []domain.ScoreSnapshot `json:"history"`
	Limit   int                    `json:"limit"`
}

// GetHistory returns recent persisted score snapshots, newest first. Without
// a configured score-history store the list is always empty.
// GET /api/scores/history?limit=100
func (h *ScoresHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)

	snaps, err := h.svc.ScoreHistory(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: score history failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load score history")
		return
	}
	if snaps == nil {
		snaps = []domain.ScoreSnapshot{}
	}
	writeJSON(w, http.StatusOK, historyResponse{History: snaps, Limit: limit})
}
