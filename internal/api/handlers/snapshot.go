package handlers

import (
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// SnapshotResponse HTTP/WebSocket модель снимка занятости лота
type SnapshotResponse struct {
	LotID         int64          `json:"lotId"`
	WindowStart   string         `json:"windowStart"`
	WindowEnd     string         `json:"windowEnd"`
	Generation    uint64         `json:"generation"`
	GeneratedAt   string         `json:"generatedAt"`
	Slots         []SlotResponse `json:"slots"`
	Summary       SummaryBanner  `json:"summary"`
	FailedSlotIDs []int64        `json:"failedSlotIds,omitempty"`
}

// SlotResponse состояние одного слота
type SlotResponse struct {
	SlotID         int64  `json:"slotId"`
	SlotNumber     string `json:"slotNumber"`
	Zone           string `json:"zone,omitempty"`
	Classification string `json:"classification"`
	Color          string `json:"color"`
	Summary        string `json:"summary"`
}

// SummaryBanner сводка по лоту
type SummaryBanner struct {
	OverlappingBookings int `json:"overlappingBookings"`
	AffectedSlots       int `json:"affectedSlots"`
	ActiveBookings      int `json:"activeBookings"`
	OccupiedSlots       int `json:"occupiedSlots"`
	FailedSlots         int `json:"failedSlots"`
}

// NewSnapshotResponse собирает ответ из частей снимка
func NewSnapshotResponse(lotID int64, window domain.TimeWindow, generation uint64, generatedAt time.Time,
	results []domain.OccupancyResult, summary domain.LotSummary) *SnapshotResponse {
	slots := make([]SlotResponse, len(results))
	for i, r := range results {
		slots[i] = SlotResponse{
			SlotID:         r.SlotID,
			SlotNumber:     r.SlotNumber,
			Zone:           r.Zone,
			Classification: string(r.Classification),
			Color:          r.Classification.Color(),
			Summary:        r.Summary,
		}
	}

	return &SnapshotResponse{
		LotID:       lotID,
		WindowStart: window.Start.Format(timeLayout),
		WindowEnd:   window.End.Format(timeLayout),
		Generation:  generation,
		GeneratedAt: generatedAt.Format(timeLayout),
		Slots:       slots,
		Summary:     SummaryBanner(summary),
	}
}

// FromSnapshot конвертирует доменный снимок в модель ответа
func FromSnapshot(s *domain.Snapshot) *SnapshotResponse {
	return NewSnapshotResponse(s.LotID, s.Window, s.Generation, s.GeneratedAt, s.Results, s.Summary)
}
