package update_slot_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers"
	updateSlotStatus "github.com/m04kA/SMC-ParkingOccupancy/internal/usecase/update_slot_status"
)

const (
	msgInvalidLotID       = "некорректный ID парковки"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректный статус слота"
	msgSlotNotFound       = "слот не найден"
)

type Handler struct {
	useCase UpdateSlotStatusUseCase
	logger  Logger
}

func NewHandler(useCase UpdateSlotStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/lots/{lotId}/slots/{slotId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	lotID, err := strconv.ParseInt(vars["lotId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /lots/{id}/slots/{id}/status - Invalid lot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLotID)
		return
	}

	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /lots/{id}/slots/{id}/status - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	// Декодируем body
	var req UpdateSlotStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /lots/{id}/slots/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(lotID, slotID))
	if err != nil {
		switch {
		case errors.Is(err, updateSlotStatus.ErrInvalidInput):
			h.logger.Warn("PUT /lots/{id}/slots/{id}/status - Invalid data: lot_id=%d, slot_id=%d, error=%v",
				lotID, slotID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, updateSlotStatus.ErrSlotNotFound):
			h.logger.Warn("PUT /lots/{id}/slots/{id}/status - Slot not found: lot_id=%d, slot_id=%d", lotID, slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		default:
			h.logger.Error("PUT /lots/{id}/slots/{id}/status - Failed to update slot: lot_id=%d, slot_id=%d, error=%v",
				lotID, slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /lots/{id}/slots/{id}/status - Slot updated: lot_id=%d, slot_id=%d, status=%s",
		lotID, slotID, result.Slot.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
