package occupancy

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

const (
	summarySeparator = " · "
	summaryEnded     = "had a booking that has ended"
)

// Summarize строит подсказку для ячейки слота относительно now:
// активное бронирование -> "ends in", иначе ближайшее будущее -> "starts in",
// иначе только прошедшие -> summaryEnded, иначе метка и сохраненный статус.
func Summarize(slot *domain.Slot, bookings []*domain.Booking, now time.Time) string {
	if b := activeAt(bookings, now); b != nil {
		return b.PlateNumber + summarySeparator + "ends in " + FormatDuration(b.EndTime.Sub(now))
	}

	if b := nextUpcoming(bookings, now); b != nil {
		return b.PlateNumber + summarySeparator + "starts in " + FormatDuration(b.StartTime.Sub(now))
	}

	if hasEnded(bookings, now) {
		return summaryEnded
	}

	return slot.Label() + summarySeparator + string(slot.Status)
}

// FormatDuration раскладывает длительность на целые часы и оставшиеся минуты.
// Округление только вниз.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
