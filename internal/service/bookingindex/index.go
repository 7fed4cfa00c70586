package bookingindex

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// Index загружает и индексирует бронирования по слотам лота
type Index struct {
	data         BookingDataService
	maxParallel  int
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger

	mu          sync.RWMutex
	lastSummary domain.LotSummary
}

// NewIndex создает новый индекс. maxParallel ограничивает число одновременных запросов.
func NewIndex(data BookingDataService, maxParallel int, metrics MetricsRecorder, logger Logger) *Index {
	if maxParallel <= 0 {
		maxParallel = domain.DefaultMaxParallel
	}
	return &Index{
		data:         data,
		maxParallel:  maxParallel,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Load запрашивает бронирования для каждого слота параллельно.
//
// Ошибка запроса одного слота не прерывает загрузку: слот получает пустой список
// и попадает в FailedSlotIDs. Результат возвращается только после завершения
// всех запросов. Ошибку возвращают лишь невалидное окно и отмена контекста.
func (idx *Index) Load(ctx context.Context, slots []*domain.Slot, window domain.TimeWindow) (*Result, error) {
	if !window.IsValid() {
		return nil, ErrInvalidWindow
	}

	started := time.Now()
	outcomes := make([]slotOutcome, len(slots))
	sem := make(chan struct{}, idx.maxParallel)

	var wg sync.WaitGroup
	for i, slot := range slots {
		wg.Add(1)
		go func(i int, slotID int64) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes[i] = slotOutcome{err: ctx.Err()}
				return
			}

			bookings, err := idx.data.FetchBookingsForSlot(ctx, slotID, window.Start, window.End)
			outcomes[i] = slotOutcome{bookings: bookings, err: err}
		}(i, slot.ID)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		idx.logger.Warn("BookingIndex.Load: cancelled after %s: %v", time.Since(started), err)
		return nil, fmt.Errorf("%w: %v", ErrLoadCancelled, err)
	}

	result := &Result{
		Bookings:      make(map[int64][]*domain.Booking, len(slots)),
		FailedSlotIDs: make([]int64, 0),
		LoadedAt:      idx.timeProvider.Now(),
	}

	for i, slot := range slots {
		outcome := outcomes[i]
		if outcome.err != nil {
			idx.logger.Warn("BookingIndex.Load: slot id=%d bookings unavailable, using empty list: %v", slot.ID, outcome.err)
			result.Bookings[slot.ID] = []*domain.Booking{}
			result.FailedSlotIDs = append(result.FailedSlotIDs, slot.ID)
			continue
		}
		result.Bookings[slot.ID] = dedupe(outcome.bookings)
	}

	result.Summary = summarize(slots, result, window)

	idx.mu.Lock()
	idx.lastSummary = result.Summary
	idx.mu.Unlock()

	if idx.metrics != nil {
		idx.metrics.ObserveIndexLoad(time.Since(started), len(slots), len(result.FailedSlotIDs))
	}

	idx.logger.Info("BookingIndex.Load: slots=%d failed=%d overlapping=%d affected=%d active=%d occupied=%d",
		len(slots), result.Summary.FailedSlots, result.Summary.OverlappingBookings,
		result.Summary.AffectedSlots, result.Summary.ActiveBookings, result.Summary.OccupiedSlots)

	return result, nil
}

// LastSummary возвращает сводку последней завершенной загрузки
func (idx *Index) LastSummary() domain.LotSummary {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lastSummary
}

// dedupe убирает повторы одного бронирования и nil-записи, сохраняя порядок
func dedupe(bookings []*domain.Booking) []*domain.Booking {
	out := make([]*domain.Booking, 0, len(bookings))
	seen := make(map[int64]struct{}, len(bookings))
	for _, b := range bookings {
		if b == nil {
			continue
		}
		if b.ID != 0 {
			if _, ok := seen[b.ID]; ok {
				continue
			}
			seen[b.ID] = struct{}{}
		}
		out = append(out, b)
	}
	return out
}

// summarize считает сводку по лоту. Данные упавших слотов пусты и в счет не входят,
// занятость машинами берется из списка слотов независимо от окна.
func summarize(slots []*domain.Slot, result *Result, window domain.TimeWindow) domain.LotSummary {
	summary := domain.LotSummary{FailedSlots: len(result.FailedSlotIDs)}

	for _, slot := range slots {
		if slot.IsOccupied() {
			summary.OccupiedSlots++
		}

		affected := false
		for _, b := range result.Bookings[slot.ID] {
			if b.IsCancelled() {
				continue
			}
			if b.Overlaps(window.Start, window.End) {
				summary.OverlappingBookings++
				affected = true
			}
			if b.IsActiveAt(result.LoadedAt) {
				summary.ActiveBookings++
			}
		}
		if affected {
			summary.AffectedSlots++
		}
	}

	return summary
}
