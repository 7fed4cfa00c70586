package get_latest_occupancy

import (
	"context"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// SnapshotReader источник последних опубликованных снимков
type SnapshotReader interface {
	Get(ctx context.Context, lotID int64) (*domain.Snapshot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
