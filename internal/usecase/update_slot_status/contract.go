package update_slot_status

import (
	"context"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// SlotWriter источник данных, принимающий ручное изменение статуса слота
type SlotWriter interface {
	// UpdateSlotStatus возвращает domain.ErrSlotNotFound если слота нет в лоте
	UpdateSlotStatus(ctx context.Context, lotID, slotID int64, update domain.SlotStatusUpdate) (*domain.Slot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
