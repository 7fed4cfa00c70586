package timewindow

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/types"
)

// endOfMinute добавляется к концу окна: "18:00" означает 18:00:59.999
const endOfMinute = 59*time.Second + 999*time.Millisecond

// Resolve строит абсолютное окно из даты и двух значений "HH:mm".
//
// date == nil означает сегодняшний день в loc (now задает "сегодня").
// Пустые startClock/endClock заменяются на "00:00"/"23:59".
// Диапазон часов не проверяется. Неразборчивое значение дает нулевой момент
// для соответствующей границы, такое окно не проходит IsValid и Validate.
func Resolve(date *time.Time, startClock, endClock string, now time.Time, loc *time.Location) domain.TimeWindow {
	if loc == nil {
		loc = time.UTC
	}

	day := now.In(loc)
	if date != nil {
		day = *date
	}
	y, m, d := day.Date()

	if startClock == "" {
		startClock = domain.DefaultStartClock
	}
	if endClock == "" {
		endClock = domain.DefaultEndClock
	}

	var window domain.TimeWindow

	if hh, mm, err := types.ParseClock(startClock); err == nil {
		window.Start = time.Date(y, m, d, hh, mm, 0, 0, loc)
	}
	if hh, mm, err := types.ParseClock(endClock); err == nil {
		window.End = time.Date(y, m, d, hh, mm, 0, 0, loc).Add(endOfMinute)
	}

	return window
}

// Validate возвращает ошибку для окна, которое не может участвовать в расчетах.
// Границы никогда не меняются местами.
func Validate(w domain.TimeWindow) error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidClock
	}
	if !w.End.After(w.Start) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvertedWindow,
			w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
	return nil
}

// ResolveValid объединяет Resolve и Validate
func ResolveValid(date *time.Time, startClock, endClock string, now time.Time, loc *time.Location) (domain.TimeWindow, error) {
	window := Resolve(date, startClock, endClock, now, loc)
	if err := Validate(window); err != nil {
		if window.Start.IsZero() {
			return window, fmt.Errorf("%w: start %q", ErrInvalidClock, startClock)
		}
		if window.End.IsZero() {
			return window, fmt.Errorf("%w: end %q", ErrInvalidClock, endClock)
		}
		return window, err
	}
	return window, nil
}
