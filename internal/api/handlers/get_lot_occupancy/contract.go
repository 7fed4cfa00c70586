package get_lot_occupancy

import (
	"context"

	getLotOccupancy "github.com/m04kA/SMC-ParkingOccupancy/internal/usecase/get_lot_occupancy"
)

type GetLotOccupancyUseCase interface {
	Execute(ctx context.Context, req *getLotOccupancy.Request) (*getLotOccupancy.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
