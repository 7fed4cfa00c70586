package slot

import (
	"errors"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

var (
	// ErrLotNotFound возвращается, когда лот не найден
	ErrLotNotFound = domain.ErrLotNotFound

	// ErrSlotNotFound возвращается, когда слот не найден в лоте
	ErrSlotNotFound = domain.ErrSlotNotFound

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
