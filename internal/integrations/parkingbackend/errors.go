package parkingbackend

import (
	"errors"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

var (
	// ErrLotNotFound возвращается, когда backend не знает такой лот
	ErrLotNotFound = domain.ErrLotNotFound

	// ErrSlotNotFound возвращается, когда backend не знает такой слот
	ErrSlotNotFound = domain.ErrSlotNotFound

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("parkingbackend client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от backend
	ErrInvalidResponse = errors.New("parkingbackend client: invalid response")
)
