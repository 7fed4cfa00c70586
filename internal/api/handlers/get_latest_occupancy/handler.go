package get_latest_occupancy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/infra/cache/snapshot"
)

const (
	msgInvalidLotID     = "некорректный ID парковки"
	msgSnapshotNotFound = "снимок занятости еще не публиковался"
)

type Handler struct {
	reader SnapshotReader
	logger Logger
}

func NewHandler(reader SnapshotReader, logger Logger) *Handler {
	return &Handler{
		reader: reader,
		logger: logger,
	}
}

// Handle GET /api/v1/lots/{lotId}/occupancy/latest
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.ParseInt(mux.Vars(r)["lotId"], 10, 64)
	if err != nil || lotID <= 0 {
		h.logger.Warn("GET /lots/{id}/occupancy/latest - Invalid lot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLotID)
		return
	}

	snap, err := h.reader.Get(r.Context(), lotID)
	if err != nil {
		if errors.Is(err, snapshot.ErrSnapshotNotFound) {
			h.logger.Info("GET /lots/{id}/occupancy/latest - No snapshot: lot_id=%d", lotID)
			handlers.RespondNotFound(w, msgSnapshotNotFound)
			return
		}
		h.logger.Error("GET /lots/{id}/occupancy/latest - Failed to read snapshot: lot_id=%d, error=%v", lotID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromSnapshot(snap))
}
