package update_slot_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// UseCase use case для ручного изменения статуса слота владельцем
type UseCase struct {
	writer SlotWriter
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(writer SlotWriter, logger Logger) *UseCase {
	return &UseCase{
		writer: writer,
		logger: logger,
	}
}

// Execute выполняет use case изменения статуса слота.
// Статус слота носит справочный характер: занятость по бронированиям его перекрывает.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	status, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateSlotStatus: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("UpdateSlotStatus: lot=%d, slot=%d, status=%s", req.LotID, req.SlotID, status)

	// 2. Передаем изменение в источник данных
	slot, err := uc.writer.UpdateSlotStatus(ctx, req.LotID, req.SlotID, domain.SlotStatusUpdate{
		Status:  status,
		Vehicle: req.Vehicle,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			uc.logger.Warn("UpdateSlotStatus: slot id=%d not found in lot id=%d", req.SlotID, req.LotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("UpdateSlotStatus: failed to update slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to update slot status: %v", ErrInternal, err)
	}

	uc.logger.Info("UpdateSlotStatus: slot id=%d is now %s", slot.ID, slot.Status)

	return &Response{Slot: slot}, nil
}
