package get_lot_occupancy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/bookingindex"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/occupancy"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/timewindow"
)

// UseCase use case для разового расчета занятости слотов лота
type UseCase struct {
	slots        SlotDataService
	index        BookingLoader
	store        SnapshotStore
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotDataService,
	index BookingLoader,
	store SnapshotStore,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		slots:        slots,
		index:        index,
		store:        store,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case: окно -> слоты -> индекс бронирований -> классификация
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetLotOccupancy: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetLotOccupancy: lot=%d, start=%q, end=%q", req.LotID, req.StartTime, req.EndTime)

	// 2. Строим окно времени
	now := uc.timeProvider.Now()
	window, err := timewindow.ResolveValid(req.Date, req.StartTime, req.EndTime, now, uc.location)
	if err != nil {
		uc.logger.Warn("GetLotOccupancy: invalid window for lot=%d: %v", req.LotID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}

	// 3. Получаем слоты лота
	slots, err := uc.slots.FetchSlotsForLot(ctx, req.LotID, window.Start, window.End)
	if err != nil {
		if errors.Is(err, domain.ErrLotNotFound) {
			uc.logger.Warn("GetLotOccupancy: lot id=%d not found", req.LotID)
			return nil, ErrLotNotFound
		}
		uc.logger.Error("GetLotOccupancy: failed to get slots for lot=%d: %v", req.LotID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	// 4. Загружаем бронирования всех слотов
	result, err := uc.index.Load(ctx, slots, window)
	if err != nil {
		if errors.Is(err, bookingindex.ErrLoadCancelled) {
			uc.logger.Warn("GetLotOccupancy: load cancelled for lot=%d: %v", req.LotID, err)
			return nil, fmt.Errorf("%w: %v", ErrBookingsUnavailable, err)
		}
		uc.logger.Error("GetLotOccupancy: failed to load bookings for lot=%d: %v", req.LotID, err)
		return nil, fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
	}
	if result.AllFailed() {
		uc.logger.Error("GetLotOccupancy: bookings of all %d slots failed for lot=%d", len(slots), req.LotID)
		return nil, ErrBookingsUnavailable
	}

	// 5. Классифицируем слоты
	results := occupancy.ClassifyAll(slots, result.Bookings, window, now)

	snapshot := &domain.Snapshot{
		LotID:       req.LotID,
		Window:      window,
		GeneratedAt: now,
		Results:     results,
		Summary:     result.Summary,
	}
	uc.saveSnapshot(ctx, snapshot)

	uc.logger.Info("GetLotOccupancy: lot=%d classified %d slots (failed=%d)",
		req.LotID, len(results), len(result.FailedSlotIDs))

	return &Response{
		LotID:         req.LotID,
		Window:        window,
		GeneratedAt:   now,
		Slots:         results,
		Summary:       result.Summary,
		FailedSlotIDs: result.FailedSlotIDs,
	}, nil
}

// saveSnapshot сохраняет снимок, ошибка хранилища не влияет на ответ
func (uc *UseCase) saveSnapshot(ctx context.Context, snapshot *domain.Snapshot) {
	if uc.store == nil {
		return
	}
	if err := uc.store.Save(ctx, snapshot); err != nil {
		uc.logger.Warn("GetLotOccupancy: failed to save snapshot for lot=%d: %v", snapshot.LotID, err)
	}
}
