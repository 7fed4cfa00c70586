package domain

import "time"

// Classification is the derived occupancy state of a slot
type Classification string

const (
	// OverlappingRange the slot is taken for the requested range ("yellow")
	OverlappingRange Classification = "overlapping-range"
	// ActiveNow the slot is in use at this instant ("red")
	ActiveNow Classification = "active-now"
	// Available no booking backs any claim on the slot ("green")
	Available Classification = "available"
	// Unknown the persisted slot status is not recognized
	Unknown Classification = "unknown"
)

// Color returns the grid color used by the owner screen
func (c Classification) Color() string {
	switch c {
	case OverlappingRange:
		return "yellow"
	case ActiveNow:
		return "red"
	case Available:
		return "green"
	default:
		return "gray"
	}
}

// OccupancyResult is recomputed on every refresh and every tick, never persisted
type OccupancyResult struct {
	SlotID         int64
	SlotNumber     string
	Zone           string
	Classification Classification
	Summary        string
}

// LotSummary is the lot-wide banner information of one Booking Index load
type LotSummary struct {
	OverlappingBookings int // non-cancelled bookings overlapping the window
	AffectedSlots       int // distinct slots with at least one overlapping booking
	ActiveBookings      int // bookings active at the instant of loading
	OccupiedSlots       int // slots with a parked vehicle right now
	FailedSlots         int // slots whose booking query failed
}

// Snapshot is the published occupancy view of a lot
type Snapshot struct {
	LotID       int64
	Window      TimeWindow
	Generation  uint64
	GeneratedAt time.Time
	Results     []OccupancyResult
	Summary     LotSummary
}
