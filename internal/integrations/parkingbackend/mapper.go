package parkingbackend

import (
	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

func (s *Slot) toDomain() *domain.Slot {
	slot := &domain.Slot{
		ID:     s.ID,
		LotID:  s.LotID,
		Number: s.SlotNumber,
		Zone:   s.ZoneName,
		Status: domain.SlotStatus(s.Status),
	}
	if s.Vehicle != nil && s.Vehicle.PlateNumber != "" {
		slot.Vehicle = &domain.Vehicle{
			PlateNumber: s.Vehicle.PlateNumber,
			Type:        s.Vehicle.VehicleType,
			Owner:       s.Vehicle.OwnerName,
		}
	}
	return slot
}

// toDomain сохраняет нераспознанный статус как есть: такое бронирование не считается отмененным
func (b *Booking) toDomain() *domain.Booking {
	status, ok := domain.ParseBookingStatus(b.Status)
	if !ok {
		status = domain.BookingStatus(b.Status)
	}
	return &domain.Booking{
		ID:          b.ID,
		SlotID:      b.SlotID,
		PlateNumber: b.PlateNumber,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      status,
	}
}

func vehicleFromDomain(v *domain.Vehicle) *Vehicle {
	if v == nil {
		return nil
	}
	return &Vehicle{
		PlateNumber: v.PlateNumber,
		VehicleType: v.Type,
		OwnerName:   v.Owner,
	}
}
