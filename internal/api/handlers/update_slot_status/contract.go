package update_slot_status

import (
	"context"

	updateSlotStatus "github.com/m04kA/SMC-ParkingOccupancy/internal/usecase/update_slot_status"
)

type UpdateSlotStatusUseCase interface {
	Execute(ctx context.Context, req *updateSlotStatus.Request) (*updateSlotStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
