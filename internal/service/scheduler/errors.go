package scheduler

import "errors"

var (
	// ErrAlreadyRunning возвращается при повторном Start
	ErrAlreadyRunning = errors.New("scheduler: already running")

	// ErrStopped возвращается при Start после Stop
	ErrStopped = errors.New("scheduler: stopped")

	// ErrInvalidInterval возвращается при неположительном интервале
	ErrInvalidInterval = errors.New("scheduler: interval must be positive")
)
