package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking represents a reservation of exactly one slot for [StartTime, EndTime)
type Booking struct {
	ID          int64
	SlotID      int64
	PlateNumber string
	StartTime   time.Time
	EndTime     time.Time
	Status      BookingStatus
}

// IsCancelled returns true if the booking has been cancelled.
// Cancelled bookings never take part in occupancy calculations.
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingCancelled
}

// Overlaps returns true if the booking interval touches [start, end]
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !b.StartTime.After(end) && !b.EndTime.Before(start)
}

// IsActiveAt returns true if the booking covers the given instant
func (b *Booking) IsActiveAt(now time.Time) bool {
	return !b.StartTime.After(now) && !b.EndTime.Before(now)
}

// IsUpcoming returns true if the booking starts after the given instant
func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.StartTime.After(now)
}

// HasEnded returns true if the booking ended before the given instant
func (b *Booking) HasEnded(now time.Time) bool {
	return b.EndTime.Before(now)
}

// ParseBookingStatus validates a raw status string
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingActive, BookingCompleted, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}
