package domain

import "time"

// TimeWindow is the absolute range used for all overlap checks.
// start <= end is not enforced by construction, see IsValid.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// IsValid returns false for invalid instants and for inverted or zero-length windows
func (w TimeWindow) IsValid() bool {
	if w.Start.IsZero() || w.End.IsZero() {
		return false
	}
	return w.End.After(w.Start)
}

// Contains returns true if the instant lies within [Start, End]
func (w TimeWindow) Contains(t time.Time) bool {
	return w.IsValid() && !t.Before(w.Start) && !t.After(w.End)
}
