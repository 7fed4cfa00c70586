package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("types: invalid time string, expected HH:MM")

// ParseClock разбирает строку "H:M" на часы и минуты.
// Диапазоны не проверяются: "25:70" вернет (25, 70), нормализацией занимается time.Date.
func ParseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid hour in %q", ErrInvalidTimeString, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid minute in %q", ErrInvalidTimeString, s)
	}

	return hour, minute, nil
}
