package bookingindex

import "errors"

var (
	// ErrInvalidWindow возвращается, когда окно нельзя использовать для запросов
	ErrInvalidWindow = errors.New("bookingindex: invalid time window")

	// ErrLoadCancelled возвращается, когда контекст отменен до завершения всех запросов
	ErrLoadCancelled = errors.New("bookingindex: load cancelled")
)
