package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/gateway"
)

// ArchiveLister defines the methods the archives handler requires from blob
// storage.
type ArchiveLister interface {
	List(ctx context.Context, prefix string) ([]domain.BlobInfo, error)
}

// ArchivesHandler serves the archived-dataset listing. It is registered only
// when object storage is configured.
type ArchivesHandler struct {
	blobs  ArchiveLister
	prefix string
	logger *slog.Logger
}

// NewArchivesHandler creates an ArchivesHandler listing objects under the
// given archive prefix.
func NewArchivesHandler(blobs ArchiveLister, prefix string, logger *slog.Logger) *ArchivesHandler {
	return &ArchivesHandler{blobs: blobs, prefix: prefix, logger: logger}
}

// listArchivesResponse wraps the archive listing output.
type listArchivesResponse struct {
	Archives []domain.BlobInfo `json:"archives"`
}

// ListArchives returns the stored archive objects for one dataset key.
// GET /api/archives/{key}
func (h *ArchivesHandler) ListArchives(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if _, ok := gateway.LookupQuery(key); !ok && key != gateway.SnapshotKey {
		writeError(w, http.StatusNotFound, "unknown dataset key")
		return
	}

	infos, err := h.blobs.List(r.Context(), h.prefix+"/"+key+"/")
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list archives failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list archives")
		return
	}
	if infos == nil {
		infos = []domain.BlobInfo{}
	}
	writeJSON(w, http.StatusOK, listArchivesResponse{Archives: infos})
}
