package domain

// SlotStatus is the lifecycle flag persisted for a slot.
// It is advisory only: derived occupancy always wins over it.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotReserved  SlotStatus = "reserved"
)

// IsKnown returns true if the status is one of the recognized values
func (s SlotStatus) IsKnown() bool {
	switch s {
	case SlotAvailable, SlotBooked, SlotReserved:
		return true
	default:
		return false
	}
}

// Vehicle is a vehicle physically parked in a slot
type Vehicle struct {
	PlateNumber string
	Type        string
	Owner       string
}

// Slot represents a physical parking space of a lot
type Slot struct {
	ID      int64
	LotID   int64
	Number  string // human-readable label, e.g. "A-12"
	Zone    string
	Status  SlotStatus
	Vehicle *Vehicle // nil when nobody is parked right now
}

// IsOccupied returns true if a vehicle is parked in the slot right now
func (s *Slot) IsOccupied() bool {
	return s.Vehicle != nil
}

// Label returns the display label of the slot
func (s *Slot) Label() string {
	if s.Number != "" {
		return s.Number
	}
	return "#" + itoa(s.ID)
}

// SlotStatusUpdate is the payload of a manual status change made by the lot owner
type SlotStatusUpdate struct {
	Status  SlotStatus
	Vehicle *Vehicle
}
