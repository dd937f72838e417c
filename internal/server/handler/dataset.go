package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/gateway"
)

// DatasetService defines the methods the dataset handler requires from the
// service layer.
type DatasetService interface {
	Dataset(ctx context.Context, key string) (*domain.Dataset, error)
	Snapshot(ctx context.Context) (*domain.MarketSnapshot, error)
}

// DatasetHandler serves raw dataset and market snapshot endpoints.
type DatasetHandler struct {
	svc    DatasetService
	logger *slog.Logger
}

// NewDatasetHandler creates a DatasetHandler with the given service and logger.
func NewDatasetHandler(svc DatasetService, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{svc: svc, logger: logger}
}

// listDatasetsResponse enumerates the tracked dataset keys.
type listDatasetsResponse struct {
	Keys []string `json:"keys"`
}

// ListDatasets returns every tracked dataset key, including the market
// snapshot key.
// GET /api/datasets
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	keys := append([]string{gateway.SnapshotKey}, gateway.QueryKeys()...)
	writeJSON(w, http.StatusOK, listDatasetsResponse{Keys: keys})
}

// GetDataset fetches a single dataset by key, serving it from cache, the
// live provider, or the deterministic fallback.
// GET /api/datasets/{key}
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	ds, err := h.svc.Dataset(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownDataset) {
			writeError(w, http.StatusNotFound, "unknown dataset key")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get dataset failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// GetSnapshot returns the current RON market snapshot.
// GET /api/snapshot
func (h *DatasetHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: get snapshot failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
