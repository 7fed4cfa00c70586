package get_latest_occupancy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/infra/cache/snapshot"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/logger"
)

type stubReader map[int64]*domain.Snapshot

func (s stubReader) Get(_ context.Context, lotID int64) (*domain.Snapshot, error) {
	if lotID == 500 {
		return nil, errors.New("redis down")
	}
	snap, ok := s[lotID]
	if !ok {
		return nil, snapshot.ErrSnapshotNotFound
	}
	return snap, nil
}

func serve(reader SnapshotReader, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/lots/{lotId}/occupancy/latest", NewHandler(reader, logger.Nop()).Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	reader := stubReader{7: {
		LotID:       7,
		Generation:  3,
		GeneratedAt: time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC),
		Results:     []domain.OccupancyResult{{SlotID: 1, Classification: domain.ActiveNow}},
	}}

	rec := serve(reader, "/api/v1/lots/7/occupancy/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	var body handlers.SnapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(3), body.Generation)
	assert.Equal(t, "red", body.Slots[0].Color)

	assert.Equal(t, http.StatusNotFound, serve(reader, "/api/v1/lots/8/occupancy/latest").Code)
	assert.Equal(t, http.StatusBadRequest, serve(reader, "/api/v1/lots/-1/occupancy/latest").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(reader, "/api/v1/lots/500/occupancy/latest").Code)
}
