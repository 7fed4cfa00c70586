package bookingindex

import (
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// Result результат одной полной загрузки
type Result struct {
	Bookings      map[int64][]*domain.Booking // slotID -> бронирования (возможно пустые)
	Summary       domain.LotSummary
	FailedSlotIDs []int64
	LoadedAt      time.Time
}

// AllFailed сообщает, что не удалось загрузить ни один слот
func (r *Result) AllFailed() bool {
	return len(r.Bookings) > 0 && len(r.FailedSlotIDs) == len(r.Bookings)
}

type slotOutcome struct {
	bookings []*domain.Booking
	err      error
}
