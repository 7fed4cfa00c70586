package liveview

import (
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// Selection выбор пользователя на экране управления слотами
type Selection struct {
	LotID      int64
	Date       *time.Time // nil означает сегодня
	StartClock string     // "HH:mm", пусто -> "00:00"
	EndClock   string     // "HH:mm", пусто -> "23:59"
}

// Options параметры представления
type Options struct {
	TickInterval    time.Duration
	RefetchInterval time.Duration
	LoadTimeout     time.Duration
	Location        *time.Location
}

// Event публикуемое обновление: новый снимок или ошибка цикла
type Event struct {
	Snapshot *domain.Snapshot
	Err      error
}

// Trigger labels for metrics
const (
	triggerSelection = "selection"
	triggerManual    = "manual"
	triggerTimer     = "timer"
)

// Refresh cycle outcomes for metrics
const (
	resultOK      = "ok"
	resultFailed  = "failed"
	resultStale   = "stale"
	resultSkipped = "skipped"
)

// applied данные, на которых построен текущий снимок
type applied struct {
	selection  Selection
	window     domain.TimeWindow
	slots      []*domain.Slot
	bookings   map[int64][]*domain.Booking
	summary    domain.LotSummary
	generation uint64
}
