package timewindow

import "errors"

var (
	// ErrInvalidClock возвращается, когда время начала или конца не удалось разобрать
	ErrInvalidClock = errors.New("timewindow: invalid clock value")

	// ErrInvertedWindow возвращается, когда конец окна не позже начала
	ErrInvertedWindow = errors.New("timewindow: end must be after start")
)
