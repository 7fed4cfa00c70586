package get_lot_occupancy

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidWindow возвращается, когда окно времени не удалось построить или оно перевернуто
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrLotNotFound возвращается, когда лот не найден
	ErrLotNotFound = errors.New("lot not found")

	// ErrBookingsUnavailable возвращается, когда не удалось загрузить бронирования ни одного слота
	ErrBookingsUnavailable = errors.New("bookings are unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
