package bookingindex

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// BookingDataService внешний источник бронирований по слоту
type BookingDataService interface {
	FetchBookingsForSlot(ctx context.Context, slotID int64, start, end time.Time) ([]*domain.Booking, error)
}

// MetricsRecorder получатель метрик загрузки (может быть nil)
type MetricsRecorder interface {
	ObserveIndexLoad(d time.Duration, slots, failed int)
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
