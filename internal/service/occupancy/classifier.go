package occupancy

import (
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// Classify определяет состояние слота. Правила проверяются в фиксированном порядке:
//
//  1. overlapping-range: хотя бы одно неотмененное бронирование пересекается с окном
//     (start <= window.End && end >= window.Start). Проверяется только для валидного окна.
//  2. active-now: хотя бы одно неотмененное бронирование покрывает now.
//  3. available: известный сохраненный статус слота, каким бы он ни был.
//  4. unknown: сохраненный статус не распознан.
//
// Функция чистая: одинаковые входные данные дают одинаковый результат.
func Classify(slot *domain.Slot, bookings []*domain.Booking, window domain.TimeWindow, now time.Time) domain.OccupancyResult {
	result := domain.OccupancyResult{
		SlotID:     slot.ID,
		SlotNumber: slot.Label(),
		Zone:       slot.Zone,
		Summary:    Summarize(slot, bookings, now),
	}

	switch {
	case overlapsWindow(bookings, window):
		result.Classification = domain.OverlappingRange
	case activeAt(bookings, now) != nil:
		result.Classification = domain.ActiveNow
	case slot.Status.IsKnown():
		result.Classification = domain.Available
	default:
		result.Classification = domain.Unknown
	}

	return result
}

// ClassifyAll классифицирует все слоты лота.
// Слот без записи в index считается слотом без бронирований.
func ClassifyAll(slots []*domain.Slot, index map[int64][]*domain.Booking, window domain.TimeWindow, now time.Time) []domain.OccupancyResult {
	results := make([]domain.OccupancyResult, len(slots))
	for i, slot := range slots {
		results[i] = Classify(slot, index[slot.ID], window, now)
	}
	return results
}

// OverlapsWindow сообщает, пересекается ли неотмененное бронирование с окном
func OverlapsWindow(b *domain.Booking, window domain.TimeWindow) bool {
	if b == nil || b.IsCancelled() || !window.IsValid() {
		return false
	}
	return b.Overlaps(window.Start, window.End)
}

func overlapsWindow(bookings []*domain.Booking, window domain.TimeWindow) bool {
	for _, b := range bookings {
		if OverlapsWindow(b, window) {
			return true
		}
	}
	return false
}

// activeAt возвращает первое неотмененное бронирование, активное в момент now
func activeAt(bookings []*domain.Booking, now time.Time) *domain.Booking {
	for _, b := range bookings {
		if b == nil || b.IsCancelled() {
			continue
		}
		if b.IsActiveAt(now) {
			return b
		}
	}
	return nil
}

// nextUpcoming возвращает ближайшее будущее неотмененное бронирование
func nextUpcoming(bookings []*domain.Booking, now time.Time) *domain.Booking {
	var next *domain.Booking
	for _, b := range bookings {
		if b == nil || b.IsCancelled() || !b.IsUpcoming(now) {
			continue
		}
		if next == nil || b.StartTime.Before(next.StartTime) {
			next = b
		}
	}
	return next
}

func hasEnded(bookings []*domain.Booking, now time.Time) bool {
	for _, b := range bookings {
		if b != nil && !b.IsCancelled() && b.HasEnded(now) {
			return true
		}
	}
	return false
}
