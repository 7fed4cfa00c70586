package get_lot_occupancy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers"
	getLotOccupancy "github.com/m04kA/SMC-ParkingOccupancy/internal/usecase/get_lot_occupancy"
)

const (
	msgInvalidLotID        = "некорректный ID парковки"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidWindow       = "некорректный интервал времени: ожидается HH:mm и конец позже начала"
	msgLotNotFound         = "парковка не найдена"
	msgBookingsUnavailable = "не удалось загрузить бронирования"
)

type Handler struct {
	useCase GetLotOccupancyUseCase
	logger  Logger
}

func NewHandler(useCase GetLotOccupancyUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/lots/{lotId}/occupancy
// Query params: date (YYYY-MM-DD, по умолчанию сегодня), startTime и endTime (HH:mm)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.ParseInt(mux.Vars(r)["lotId"], 10, 64)
	if err != nil || lotID <= 0 {
		h.logger.Warn("GET /lots/{id}/occupancy - Invalid lot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLotID)
		return
	}

	q := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(lotID, q.Get("date"), q.Get("startTime"), q.Get("endTime"))
	if err != nil {
		h.logger.Warn("GET /lots/{id}/occupancy - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getLotOccupancy.ErrInvalidInput):
			h.logger.Warn("GET /lots/{id}/occupancy - Invalid input: lot_id=%d, error=%v", lotID, err)
			handlers.RespondBadRequest(w, msgInvalidLotID)

		case errors.Is(err, getLotOccupancy.ErrInvalidWindow):
			h.logger.Warn("GET /lots/{id}/occupancy - Invalid window: lot_id=%d, error=%v", lotID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, getLotOccupancy.ErrLotNotFound):
			h.logger.Warn("GET /lots/{id}/occupancy - Lot not found: lot_id=%d", lotID)
			handlers.RespondNotFound(w, msgLotNotFound)

		case errors.Is(err, getLotOccupancy.ErrBookingsUnavailable):
			h.logger.Error("GET /lots/{id}/occupancy - Bookings unavailable: lot_id=%d, error=%v", lotID, err)
			handlers.RespondBadGateway(w, msgBookingsUnavailable)

		default:
			h.logger.Error("GET /lots/{id}/occupancy - Failed to get occupancy: lot_id=%d, error=%v", lotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /lots/{id}/occupancy - Occupancy calculated: lot_id=%d, slots_count=%d, failed=%d",
		lotID, len(result.Slots), len(result.FailedSlotIDs))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
