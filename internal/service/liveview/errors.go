package liveview

import "errors"

var (
	// ErrInvalidSelection возвращается при некорректном выборе лота, даты или времени
	ErrInvalidSelection = errors.New("liveview: invalid selection")

	// ErrSlotsUnavailable возвращается, когда не удалось загрузить список слотов
	ErrSlotsUnavailable = errors.New("liveview: slot list unavailable")

	// ErrRefreshFailed возвращается, когда цикл загрузки бронирований не удался
	ErrRefreshFailed = errors.New("liveview: refresh cycle failed")

	// ErrNoSelection возвращается при обновлении без выбранного лота
	ErrNoSelection = errors.New("liveview: no lot selected")

	// ErrClosed возвращается после Close
	ErrClosed = errors.New("liveview: view is closed")
)
