package domain

import (
	"strconv"
	"time"
)

// Default engine values
const (
	DefaultStartClock      = "00:00"
	DefaultEndClock        = "23:59"
	DefaultTickInterval    = time.Second
	DefaultRefetchInterval = 30 * time.Second
	DefaultMaxParallel     = 8
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
