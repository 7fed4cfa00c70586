package update_slot_status

import (
	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	updateSlotStatus "github.com/m04kA/SMC-ParkingOccupancy/internal/usecase/update_slot_status"
)

// UpdateSlotStatusRequest HTTP request model
type UpdateSlotStatusRequest struct {
	Status  string        `json:"status"`
	Vehicle *VehicleModel `json:"vehicle,omitempty"`
}

// VehicleModel машина в слоте
type VehicleModel struct {
	PlateNumber string `json:"plateNumber"`
	Type        string `json:"type,omitempty"`
	Owner       string `json:"owner,omitempty"`
}

// SlotResponse HTTP response model
type SlotResponse struct {
	ID         int64         `json:"id"`
	LotID      int64         `json:"lotId"`
	SlotNumber string        `json:"slotNumber"`
	Zone       string        `json:"zone,omitempty"`
	Status     string        `json:"status"`
	Vehicle    *VehicleModel `json:"vehicle,omitempty"`
}

// ToUseCaseRequest создает запрос use case
func (r *UpdateSlotStatusRequest) ToUseCaseRequest(lotID, slotID int64) *updateSlotStatus.Request {
	req := &updateSlotStatus.Request{
		LotID:  lotID,
		SlotID: slotID,
		Status: r.Status,
	}
	if r.Vehicle != nil {
		req.Vehicle = &domain.Vehicle{
			PlateNumber: r.Vehicle.PlateNumber,
			Type:        r.Vehicle.Type,
			Owner:       r.Vehicle.Owner,
		}
	}
	return req
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateSlotStatus.Response) *SlotResponse {
	slot := resp.Slot
	out := &SlotResponse{
		ID:         slot.ID,
		LotID:      slot.LotID,
		SlotNumber: slot.Number,
		Zone:       slot.Zone,
		Status:     string(slot.Status),
	}
	if slot.Vehicle != nil {
		out.Vehicle = &VehicleModel{
			PlateNumber: slot.Vehicle.PlateNumber,
			Type:        slot.Vehicle.Type,
			Owner:       slot.Vehicle.Owner,
		}
	}
	return out
}
