package parkingbackend

import "time"

// Slot модель слота из parking backend
type Slot struct {
	ID         int64    `json:"id"`
	LotID      int64    `json:"lot_id"`
	SlotNumber string   `json:"slot_number"`
	ZoneName   string   `json:"zone_name"`
	Status     string   `json:"status"` // available | booked | reserved
	Vehicle    *Vehicle `json:"vehicle,omitempty"`
}

// Vehicle модель припаркованной машины
type Vehicle struct {
	PlateNumber string `json:"plate_number"`
	VehicleType string `json:"vehicle_type,omitempty"`
	OwnerName   string `json:"owner_name,omitempty"`
}

// Booking модель бронирования из parking backend
type Booking struct {
	ID          int64     `json:"id"`
	SlotID      int64     `json:"slot_id"`
	PlateNumber string    `json:"plate_number"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

// UpdateSlotStatusRequest тело запроса на изменение статуса слота
type UpdateSlotStatusRequest struct {
	Status  string   `json:"status"`
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

// ErrorResponse модель ошибки от parking backend
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
