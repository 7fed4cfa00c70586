package get_lot_occupancy

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/bookingindex"
)

// SlotDataService источник слотов лота
type SlotDataService interface {
	// FetchSlotsForLot возвращает слоты лота, domain.ErrLotNotFound если лота нет
	FetchSlotsForLot(ctx context.Context, lotID int64, start, end time.Time) ([]*domain.Slot, error)
}

// BookingLoader индекс бронирований
type BookingLoader interface {
	Load(ctx context.Context, slots []*domain.Slot, window domain.TimeWindow) (*bookingindex.Result, error)
}

// SnapshotStore хранилище последних снимков (может быть nil)
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
