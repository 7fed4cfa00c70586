package occupancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 12, 1, hour, minute, 0, 0, time.UTC)
}

func window(fromHour, toHour int) domain.TimeWindow {
	return domain.TimeWindow{Start: at(fromHour, 0), End: at(toHour, 0)}
}

func booking(id int64, status domain.BookingStatus, from, to time.Time) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		SlotID:      1,
		PlateNumber: "51A-123.45",
		StartTime:   from,
		EndTime:     to,
		Status:      status,
	}
}

func slot(status domain.SlotStatus) *domain.Slot {
	return &domain.Slot{ID: 1, LotID: 10, Number: "A-01", Zone: "A", Status: status}
}

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		bookings []*domain.Booking
		window   domain.TimeWindow
		now      time.Time
		want     domain.Classification
	}{
		{
			name:     "A: booking inside the window",
			bookings: []*domain.Booking{booking(1, domain.BookingConfirmed, at(8, 0), at(12, 0))},
			window:   window(8, 18),
			now:      at(7, 0),
			want:     domain.OverlappingRange,
		},
		{
			name:     "B: no overlap and nothing active",
			bookings: []*domain.Booking{booking(1, domain.BookingConfirmed, at(8, 0), at(12, 0))},
			window:   window(20, 22),
			now:      at(21, 0),
			want:     domain.Available,
		},
		{
			name:     "C: overlapping and active at once, range wins",
			bookings: []*domain.Booking{booking(1, domain.BookingConfirmed, at(9, 0), at(11, 0))},
			window:   window(8, 10),
			now:      at(9, 30),
			want:     domain.OverlappingRange,
		},
		{
			name:     "active now outside the window",
			bookings: []*domain.Booking{booking(1, domain.BookingActive, at(6, 0), at(9, 0))},
			window:   window(12, 14),
			now:      at(7, 0),
			want:     domain.ActiveNow,
		},
		{
			name:     "touching boundary counts as overlap",
			bookings: []*domain.Booking{booking(1, domain.BookingPending, at(6, 0), at(8, 0))},
			window:   window(8, 10),
			now:      at(5, 0),
			want:     domain.OverlappingRange,
		},
		{
			name:   "no bookings",
			window: window(8, 10),
			now:    at(9, 0),
			want:   domain.Available,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(slot(domain.SlotAvailable), tt.bookings, tt.window, tt.now)
			assert.Equal(t, tt.want, got.Classification)
			assert.Equal(t, int64(1), got.SlotID)
		})
	}
}

func TestClassify_ScenarioC_SummaryFromActiveBooking(t *testing.T) {
	bookings := []*domain.Booking{booking(1, domain.BookingConfirmed, at(9, 0), at(11, 0))}

	got := Classify(slot(domain.SlotAvailable), bookings, window(8, 10), at(9, 30))

	assert.Equal(t, domain.OverlappingRange, got.Classification)
	assert.Equal(t, "51A-123.45 · ends in 1h 30m", got.Summary)
}

func TestClassify_OverlapDominatesActiveFromAnotherBooking(t *testing.T) {
	bookings := []*domain.Booking{
		booking(1, domain.BookingActive, at(6, 0), at(9, 0)),      // активно сейчас, вне окна
		booking(2, domain.BookingConfirmed, at(14, 0), at(16, 0)), // в окне
	}

	got := Classify(slot(domain.SlotAvailable), bookings, window(13, 17), at(7, 0))

	assert.Equal(t, domain.OverlappingRange, got.Classification)
}

func TestClassify_PersistedStatusIsOverridden(t *testing.T) {
	for _, status := range []domain.SlotStatus{domain.SlotAvailable, domain.SlotBooked, domain.SlotReserved} {
		got := Classify(slot(status), nil, window(8, 10), at(9, 0))
		assert.Equal(t, domain.Available, got.Classification, "status %s", status)
	}
}

func TestClassify_UnknownStatusFallsBack(t *testing.T) {
	got := Classify(slot("maintenance"), nil, window(8, 10), at(9, 0))

	assert.Equal(t, domain.Unknown, got.Classification)
	assert.Equal(t, "A-01 · maintenance", got.Summary)
}

func TestClassify_CancelledBookingsAreInert(t *testing.T) {
	bookings := []*domain.Booking{booking(1, domain.BookingCancelled, at(0, 0), at(23, 59))}

	got := Classify(slot(domain.SlotBooked), bookings, window(8, 10), at(9, 0))

	assert.Equal(t, domain.Available, got.Classification)
	assert.Equal(t, "A-01 · booked", got.Summary)
}

func TestClassify_MalformedWindowNeverMatches(t *testing.T) {
	bookings := []*domain.Booking{booking(1, domain.BookingConfirmed, at(8, 0), at(12, 0))}

	windows := map[string]domain.TimeWindow{
		"inverted":    {Start: at(18, 0), End: at(8, 0)},
		"zero length": {Start: at(9, 0), End: at(9, 0)},
		"zero start":  {End: at(18, 0)},
		"zero both":   {},
	}

	for name, w := range windows {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				got := Classify(slot(domain.SlotAvailable), bookings, w, at(20, 0))
				assert.Equal(t, domain.Available, got.Classification)
			})
		})
	}
}

func TestClassify_ToleratesOverlappingAndUnsortedBookings(t *testing.T) {
	bookings := []*domain.Booking{
		booking(3, domain.BookingConfirmed, at(15, 0), at(17, 0)),
		booking(1, domain.BookingConfirmed, at(9, 0), at(12, 0)),
		booking(2, domain.BookingConfirmed, at(10, 0), at(11, 0)),
		nil,
	}

	got := Classify(slot(domain.SlotAvailable), bookings, window(20, 22), at(10, 30))

	assert.Equal(t, domain.ActiveNow, got.Classification)
}

func TestClassify_Idempotent(t *testing.T) {
	bookings := []*domain.Booking{booking(1, domain.BookingConfirmed, at(9, 0), at(11, 0))}
	s := slot(domain.SlotReserved)

	first := Classify(s, bookings, window(8, 10), at(9, 30))
	second := Classify(s, bookings, window(8, 10), at(9, 30))

	assert.Equal(t, first, second)
}

func TestClassify_OverlapProperty(t *testing.T) {
	w := window(8, 18)
	for startHour := 0; startHour < 24; startHour++ {
		for length := 1; startHour+length <= 24; length++ {
			from := at(startHour, 0)
			to := from.Add(time.Duration(length) * time.Hour)
			b := booking(1, domain.BookingConfirmed, from, to)

			// now далеко от бронирования, чтобы правило 2 не срабатывало
			got := Classify(slot(domain.SlotAvailable), []*domain.Booking{b}, w, from.Add(-48*time.Hour))

			overlaps := !from.After(w.End) && !to.Before(w.Start)
			if overlaps {
				assert.Equal(t, domain.OverlappingRange, got.Classification, "%s-%s", from, to)
			} else {
				assert.Equal(t, domain.Available, got.Classification, "%s-%s", from, to)
			}
		}
	}
}

func TestClassifyAll_MissingEntriesAreEmpty(t *testing.T) {
	slots := []*domain.Slot{
		{ID: 1, Number: "A-01", Status: domain.SlotAvailable},
		{ID: 2, Number: "A-02", Status: domain.SlotBooked},
	}
	index := map[int64][]*domain.Booking{
		1: {booking(1, domain.BookingConfirmed, at(8, 0), at(9, 0))},
	}

	results := ClassifyAll(slots, index, window(8, 10), at(7, 0))

	assert.Len(t, results, 2)
	assert.Equal(t, domain.OverlappingRange, results[0].Classification)
	assert.Equal(t, domain.Available, results[1].Classification)
}
