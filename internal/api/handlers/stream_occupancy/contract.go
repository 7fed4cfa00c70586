package stream_occupancy

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/liveview"
)

// LiveView живое представление одного подключения (liveview.View)
type LiveView interface {
	ID() uuid.UUID
	Select(ctx context.Context, sel liveview.Selection) error
	RequestRefresh() error
	Updates() <-chan liveview.Event
	Close()
}

// ViewFactory открывает новое представление на каждое подключение
type ViewFactory func() (LiveView, error)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
