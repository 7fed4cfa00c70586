package liveview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/bookingindex"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/occupancy"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/scheduler"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/timewindow"
)

const (
	updatesBuffer    = 8
	snapshotSaveTime = 2 * time.Second
)

// View живое представление занятости слотов одного экрана владельца.
//
// Перезагрузку запускают только два вида событий: смена выбора (Select, RequestRefresh)
// и срабатывание таймеров планировщика. Каждая загрузка помечается поколением,
// результат загрузки старше последнего выданного поколения отбрасывается.
type View struct {
	id           uuid.UUID
	slots        SlotDataService
	index        BookingLoader
	store        SnapshotStore
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
	opts         Options
	scheduler    *scheduler.Scheduler

	mu        sync.Mutex
	issued    uint64     // последнее выданное поколение
	pending   uint64     // поколение незавершенной загрузки выбора, 0 если такой нет
	requested *Selection // последний выбор пользователя
	current   *applied   // данные текущего снимка
	snapshot  *domain.Snapshot
	lastErr   error
	closed    bool
	updates   chan Event
	closeOnce sync.Once
}

// New создает представление и запускает его таймеры
func New(
	slots SlotDataService,
	index BookingLoader,
	store SnapshotStore,
	metrics MetricsRecorder,
	opts Options,
	logger Logger,
) (*View, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = domain.DefaultTickInterval
	}
	if opts.RefetchInterval <= 0 {
		opts.RefetchInterval = domain.DefaultRefetchInterval
	}

	v := &View{
		id:           uuid.New(),
		slots:        slots,
		index:        index,
		store:        store,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		opts:         opts,
		updates:      make(chan Event, updatesBuffer),
	}

	sched, err := scheduler.New(opts.TickInterval, opts.RefetchInterval, scheduler.Handlers{
		OnTick:    v.onTick,
		OnRefetch: v.onRefetch,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("liveview: failed to create scheduler: %w", err)
	}
	v.scheduler = sched

	if err := sched.Start(); err != nil {
		return nil, fmt.Errorf("liveview: failed to start scheduler: %w", err)
	}

	if metrics != nil {
		metrics.ViewOpened()
	}
	logger.Info("LiveView %s: opened", v.id)

	return v, nil
}

// ID идентификатор представления
func (v *View) ID() uuid.UUID {
	return v.id
}

// Updates канал обновлений. Закрывается в Close.
// При переполнении старые события вытесняются новыми.
func (v *View) Updates() <-chan Event {
	return v.updates
}

// Snapshot возвращает текущий снимок (nil до первой успешной загрузки или после ошибки смены выбора)
func (v *View) Snapshot() *domain.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

// Err возвращает ошибку последнего цикла (nil после успешного)
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Select меняет выбор и сразу выполняет полную загрузку (слоты + бронирования).
// Некорректное окно возвращает ErrInvalidSelection, границы не переставляются.
func (v *View) Select(ctx context.Context, sel Selection) error {
	if sel.LotID <= 0 {
		return fmt.Errorf("%w: lot id must be positive", ErrInvalidSelection)
	}

	window, err := timewindow.ResolveValid(sel.Date, sel.StartClock, sel.EndClock, v.timeProvider.Now(), v.opts.Location)
	if err != nil {
		v.logger.Warn("LiveView %s: rejected selection lot=%d start=%q end=%q: %v",
			v.id, sel.LotID, sel.StartClock, sel.EndClock, err)
		return fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.requested = &sel
	gen := v.nextGenerationLocked()
	v.pending = gen
	v.mu.Unlock()

	v.logger.Info("LiveView %s: selection lot=%d window=%s..%s gen=%d", v.id, sel.LotID,
		window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339), gen)

	return v.fullReload(ctx, gen, sel, window, triggerSelection)
}

// RequestRefresh запрашивает внеочередную полную загрузку по текущему выбору.
// Загрузка выполняется асинхронно, результат приходит в Updates.
func (v *View) RequestRefresh() error {
	v.mu.Lock()
	closed, requested := v.closed, v.requested
	v.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if requested == nil {
		return ErrNoSelection
	}
	v.scheduler.Trigger()
	return nil
}

// Close останавливает таймеры и закрывает канал обновлений. Повторный вызов безопасен.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		v.scheduler.Stop()

		v.mu.Lock()
		v.closed = true
		close(v.updates)
		v.mu.Unlock()

		if v.metrics != nil {
			v.metrics.ViewClosed()
		}
		v.logger.Info("LiveView %s: closed", v.id)
	})
}

func (v *View) nextGenerationLocked() uint64 {
	v.issued++
	return v.issued
}

// fullReload загружает слоты и бронирования для выбора sel
func (v *View) fullReload(ctx context.Context, gen uint64, sel Selection, window domain.TimeWindow, trigger string) error {
	ctx, cancel := v.withLoadTimeout(ctx)
	defer cancel()

	slots, err := v.slots.FetchSlotsForLot(ctx, sel.LotID, window.Start, window.End)
	if err != nil {
		v.logger.Error("LiveView %s: failed to load slots for lot=%d: %v", v.id, sel.LotID, err)
		return v.fail(gen, sel, window, trigger, fmt.Errorf("%w: %v", ErrSlotsUnavailable, err))
	}

	result, err := v.index.Load(ctx, slots, window)
	if err != nil {
		v.logger.Error("LiveView %s: failed to load bookings for lot=%d: %v", v.id, sel.LotID, err)
		return v.fail(gen, sel, window, trigger, fmt.Errorf("%w: %v", ErrRefreshFailed, err))
	}

	v.apply(gen, sel, window, slots, result, trigger)
	return nil
}

// refetchBookings повторно загружает только бронирования для отображаемых слотов.
// Пока загружается новый выбор, цикл таймера пропускается.
func (v *View) refetchBookings(ctx context.Context) {
	v.mu.Lock()
	if v.closed || v.current == nil || len(v.current.slots) == 0 {
		v.mu.Unlock()
		return
	}
	if v.pending != 0 {
		pending := v.pending
		v.mu.Unlock()
		v.logger.Debug("LiveView %s: timer refetch skipped, selection gen=%d is loading", v.id, pending)
		v.recordCycle(triggerTimer, resultSkipped)
		return
	}
	cur := v.current
	gen := v.nextGenerationLocked()
	v.mu.Unlock()

	ctx, cancel := v.withLoadTimeout(ctx)
	defer cancel()

	result, err := v.index.Load(ctx, cur.slots, cur.window)
	if err == nil && result.AllFailed() {
		err = fmt.Errorf("all %d slot queries failed", len(result.FailedSlotIDs))
	}
	if err != nil {
		v.logger.Warn("LiveView %s: refetch gen=%d failed, keeping previous snapshot: %v", v.id, gen, err)
		_ = v.fail(gen, cur.selection, cur.window, triggerTimer, fmt.Errorf("%w: %v", ErrRefreshFailed, err))
		return
	}

	v.apply(gen, cur.selection, cur.window, cur.slots, result, triggerTimer)
}

// apply публикует результат загрузки, если его поколение не устарело
func (v *View) apply(gen uint64, sel Selection, window domain.TimeWindow, slots []*domain.Slot, result *bookingindex.Result, trigger string) {
	now := v.timeProvider.Now()

	v.mu.Lock()
	v.finishLocked(gen)
	if v.closed {
		v.mu.Unlock()
		return
	}
	if gen < v.issued {
		v.mu.Unlock()
		v.discardStale(gen, trigger)
		return
	}

	v.current = &applied{
		selection:  sel,
		window:     window,
		slots:      slots,
		bookings:   result.Bookings,
		summary:    result.Summary,
		generation: gen,
	}
	snapshot := v.buildSnapshotLocked(now)
	v.snapshot = snapshot
	v.lastErr = nil
	v.publishLocked(Event{Snapshot: snapshot})
	v.mu.Unlock()

	v.recordCycle(trigger, resultOK)
	v.logger.Debug("LiveView %s: applied gen=%d lot=%d slots=%d", v.id, gen, sel.LotID, len(slots))

	v.saveSnapshot(snapshot)
}

// fail фиксирует ошибку цикла. Ошибка при смене выбора убирает сетку,
// ошибка обновления того же выбора оставляет предыдущий снимок.
func (v *View) fail(gen uint64, sel Selection, window domain.TimeWindow, trigger string, cause error) error {
	v.mu.Lock()
	v.finishLocked(gen)
	if v.closed {
		v.mu.Unlock()
		return cause
	}
	if gen < v.issued {
		v.mu.Unlock()
		v.discardStale(gen, trigger)
		return cause
	}

	if v.current == nil || v.current.selection.LotID != sel.LotID || !v.current.window.Start.Equal(window.Start) || !v.current.window.End.Equal(window.End) {
		v.current = nil
		v.snapshot = nil
	}
	v.lastErr = cause
	v.publishLocked(Event{Snapshot: v.snapshot, Err: cause})
	v.mu.Unlock()

	v.recordCycle(trigger, resultFailed)
	return cause
}

// finishLocked снимает отметку незавершенной загрузки выбора
func (v *View) finishLocked(gen uint64) {
	if v.pending == gen {
		v.pending = 0
	}
}

func (v *View) discardStale(gen uint64, trigger string) {
	v.logger.Debug("LiveView %s: discarded stale gen=%d (trigger=%s)", v.id, gen, trigger)
	if v.metrics != nil {
		v.metrics.IncStaleDiscarded()
	}
	v.recordCycle(trigger, resultStale)
}

// onTick пересчитывает классификацию с новым now без загрузки данных.
// Публикует снимок только если что-то изменилось.
func (v *View) onTick(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || v.current == nil || v.snapshot == nil {
		return
	}

	results := occupancy.ClassifyAll(v.current.slots, v.current.bookings, v.current.window, now)
	if sameResults(results, v.snapshot.Results) {
		return
	}

	snapshot := v.newSnapshotLocked(results, now)
	v.snapshot = snapshot
	v.publishLocked(Event{Snapshot: snapshot})
}

// onRefetch обработчик таймера refetch и явного запроса обновления
func (v *View) onRefetch(ctx context.Context, trigger scheduler.Trigger) {
	if trigger == scheduler.TriggerTimer {
		v.refetchBookings(ctx)
		return
	}

	v.mu.Lock()
	if v.closed || v.requested == nil {
		v.mu.Unlock()
		v.logger.Debug("LiveView %s: refresh requested without selection", v.id)
		return
	}
	sel := *v.requested
	gen := v.nextGenerationLocked()
	v.pending = gen
	v.mu.Unlock()

	window, err := timewindow.ResolveValid(sel.Date, sel.StartClock, sel.EndClock, v.timeProvider.Now(), v.opts.Location)
	if err != nil {
		// выбор уже прошел проверку в Select, сюда попадаем только при смене дня для date == nil
		_ = v.fail(gen, sel, window, triggerManual, fmt.Errorf("%w: %v", ErrInvalidSelection, err))
		return
	}

	_ = v.fullReload(ctx, gen, sel, window, triggerManual)
}

func (v *View) buildSnapshotLocked(now time.Time) *domain.Snapshot {
	results := occupancy.ClassifyAll(v.current.slots, v.current.bookings, v.current.window, now)
	return v.newSnapshotLocked(results, now)
}

func (v *View) newSnapshotLocked(results []domain.OccupancyResult, now time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		LotID:       v.current.selection.LotID,
		Window:      v.current.window,
		Generation:  v.current.generation,
		GeneratedAt: now,
		Results:     results,
		Summary:     v.current.summary,
	}
}

func (v *View) publishLocked(ev Event) {
	if v.closed {
		return
	}
	for {
		select {
		case v.updates <- ev:
			return
		default:
			// вытесняем самое старое событие
			select {
			case <-v.updates:
			default:
			}
		}
	}
}

func (v *View) saveSnapshot(snapshot *domain.Snapshot) {
	if v.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotSaveTime)
	defer cancel()

	if err := v.store.Save(ctx, snapshot); err != nil {
		v.logger.Warn("LiveView %s: failed to save snapshot lot=%d: %v", v.id, snapshot.LotID, err)
	}
}

func (v *View) recordCycle(trigger, result string) {
	if v.metrics != nil {
		v.metrics.IncRefreshCycle(trigger, result)
	}
}

func (v *View) withLoadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.opts.LoadTimeout > 0 {
		return context.WithTimeout(ctx, v.opts.LoadTimeout)
	}
	return context.WithCancel(ctx)
}

func sameResults(a, b []domain.OccupancyResult) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
