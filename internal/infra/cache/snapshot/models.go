package snapshot

import (
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

type record struct {
	LotID       int64          `json:"lot_id"`
	WindowStart time.Time      `json:"window_start"`
	WindowEnd   time.Time      `json:"window_end"`
	Generation  uint64         `json:"generation"`
	GeneratedAt time.Time      `json:"generated_at"`
	Results     []resultRecord `json:"results"`
	Summary     summaryRecord  `json:"summary"`
}

type resultRecord struct {
	SlotID         int64  `json:"slot_id"`
	SlotNumber     string `json:"slot_number"`
	Zone           string `json:"zone"`
	Classification string `json:"classification"`
	Summary        string `json:"summary"`
}

type summaryRecord struct {
	OverlappingBookings int `json:"overlapping_bookings"`
	AffectedSlots       int `json:"affected_slots"`
	ActiveBookings      int `json:"active_bookings"`
	OccupiedSlots       int `json:"occupied_slots"`
	FailedSlots         int `json:"failed_slots"`
}

func toRecord(s *domain.Snapshot) record {
	rec := record{
		LotID:       s.LotID,
		WindowStart: s.Window.Start,
		WindowEnd:   s.Window.End,
		Generation:  s.Generation,
		GeneratedAt: s.GeneratedAt,
		Results:     make([]resultRecord, 0, len(s.Results)),
		Summary:     summaryRecord(s.Summary),
	}
	for _, r := range s.Results {
		rec.Results = append(rec.Results, resultRecord{
			SlotID:         r.SlotID,
			SlotNumber:     r.SlotNumber,
			Zone:           r.Zone,
			Classification: string(r.Classification),
			Summary:        r.Summary,
		})
	}
	return rec
}

func (rec record) toDomain() *domain.Snapshot {
	s := &domain.Snapshot{
		LotID:       rec.LotID,
		Window:      domain.TimeWindow{Start: rec.WindowStart, End: rec.WindowEnd},
		Generation:  rec.Generation,
		GeneratedAt: rec.GeneratedAt,
		Results:     make([]domain.OccupancyResult, 0, len(rec.Results)),
		Summary:     domain.LotSummary(rec.Summary),
	}
	for _, r := range rec.Results {
		s.Results = append(s.Results, domain.OccupancyResult{
			SlotID:         r.SlotID,
			SlotNumber:     r.SlotNumber,
			Zone:           r.Zone,
			Classification: domain.Classification(r.Classification),
			Summary:        r.Summary,
		})
	}
	return s
}
