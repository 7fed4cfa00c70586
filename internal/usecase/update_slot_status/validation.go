package update_slot_status

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// validateRequest валидирует входные данные и возвращает распознанный статус
func validateRequest(req *Request) (domain.SlotStatus, error) {
	if req == nil {
		return "", fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.LotID <= 0 {
		return "", fmt.Errorf("%w: lotID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return "", fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	status := domain.SlotStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.IsKnown() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	// Машина указывается только для занятого слота
	if req.Vehicle != nil {
		if status == domain.SlotAvailable {
			return "", fmt.Errorf("%w: vehicle is not allowed for an available slot", ErrInvalidInput)
		}
		if strings.TrimSpace(req.Vehicle.PlateNumber) == "" {
			return "", fmt.Errorf("%w: vehicle plate number is required", ErrInvalidInput)
		}
	}

	return status, nil
}
