package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
)

// StatusService defines the methods the status handler requires from the
// service layer.
type StatusService interface {
	DataStatus(ctx context.Context) []domain.SourceStatus
}

// StatusHandler serves the per-dataset provenance and freshness report.
type StatusHandler struct {
	svc       StatusService
	mode      string
	startedAt time.Time
}

// NewStatusHandler creates a StatusHandler with the given service and
// runtime metadata.
func NewStatusHandler(svc StatusService, mode string, startedAt time.Time) *StatusHandler {
	return &StatusHandler{svc: svc, mode: mode, startedAt: startedAt}
}

// statusResponse is the full status report for the dashboard.
type statusResponse struct {
	Mode          string                `json:"mode"`
	UptimeSeconds int64                 `json:"uptime_seconds"`
	Sources       []domain.SourceStatus `json:"sources"`
}

// GetStatus reports the backend mode, uptime, and the provenance of every
// tracked dataset.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	uptime := int64(time.Since(h.startedAt).Seconds())
	if uptime < 0 {
		uptime = 0
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Mode:          h.mode,
		UptimeSeconds: uptime,
		Sources:       h.svc.DataStatus(r.Context()),
	})
}
