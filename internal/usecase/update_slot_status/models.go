package update_slot_status

import "github.com/m04kA/SMC-ParkingOccupancy/internal/domain"

// Request модель запроса на изменение статуса слота
type Request struct {
	LotID   int64
	SlotID  int64
	Status  string          // available | booked | reserved
	Vehicle *domain.Vehicle // необязательное описание припаркованной машины
}

// Response модель ответа с обновленным слотом
type Response struct {
	Slot *domain.Slot
}
