package get_lot_occupancy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	getLotOccupancy "github.com/m04kA/SMC-ParkingOccupancy/internal/usecase/get_lot_occupancy"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/logger"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getLotOccupancy.Request) (*getLotOccupancy.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*getLotOccupancy.Response)
	return resp, args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/lots/{lotId}/occupancy", h.Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	start := time.Date(2024, 12, 1, 13, 0, 0, 0, time.UTC)
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getLotOccupancy.Request) bool {
		return req.LotID == 7 && req.Date != nil && req.Date.Day() == 1 &&
			req.StartTime == "13:00" && req.EndTime == "16:00"
	})).Return(&getLotOccupancy.Response{
		LotID:       7,
		Window:      domain.TimeWindow{Start: start, End: start.Add(3*time.Hour + 59*time.Second)},
		GeneratedAt: start,
		Slots: []domain.OccupancyResult{
			{SlotID: 1, SlotNumber: "A1", Classification: domain.OverlappingRange, Summary: "51F-1 · starts in 1h 0m"},
		},
		Summary:       domain.LotSummary{OverlappingBookings: 1, AffectedSlots: 1, FailedSlots: 1},
		FailedSlotIDs: []int64{2},
	}, nil)

	rec := serve(NewHandler(uc, logger.Nop()), "/api/v1/lots/7/occupancy?date=2024-12-01&startTime=13:00&endTime=16:00")
	require.Equal(t, http.StatusOK, rec.Code)

	var body handlers.SnapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.LotID)
	assert.Equal(t, "2024-12-01T13:00:00.000Z", body.WindowStart)
	require.Len(t, body.Slots, 1)
	assert.Equal(t, "overlapping-range", body.Slots[0].Classification)
	assert.Equal(t, "yellow", body.Slots[0].Color)
	assert.Equal(t, []int64{2}, body.FailedSlotIDs)
	assert.Equal(t, 1, body.Summary.FailedSlots)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{name: "bad lot id", target: "/api/v1/lots/abc/occupancy", status: http.StatusBadRequest},
		{name: "bad date", target: "/api/v1/lots/7/occupancy?date=01-12-2024", status: http.StatusBadRequest},
		{name: "inverted window", target: "/api/v1/lots/7/occupancy?startTime=18:00&endTime=08:00",
			err: fmt.Errorf("%w: inverted", getLotOccupancy.ErrInvalidWindow), status: http.StatusBadRequest},
		{name: "not found", target: "/api/v1/lots/7/occupancy",
			err: getLotOccupancy.ErrLotNotFound, status: http.StatusNotFound},
		{name: "all failed", target: "/api/v1/lots/7/occupancy",
			err: getLotOccupancy.ErrBookingsUnavailable, status: http.StatusBadGateway},
		{name: "internal", target: "/api/v1/lots/7/occupancy",
			err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			if tt.err != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := serve(NewHandler(uc, logger.Nop()), tt.target)
			assert.Equal(t, tt.status, rec.Code)

			if tt.err == nil {
				uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
			}
		})
	}
}
