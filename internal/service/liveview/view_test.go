package liveview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/bookingindex"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/scheduler"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/logger"
)

var (
	testDay = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeSlots отдает слоты по лоту, загрузку лота можно придержать через gate
type fakeSlots struct {
	mu      sync.Mutex
	byLot   map[int64][]*domain.Slot
	errs    map[int64]error
	gates   map[int64]chan struct{}
	started map[int64]chan struct{}
}

func newFakeSlots() *fakeSlots {
	return &fakeSlots{
		byLot:   make(map[int64][]*domain.Slot),
		errs:    make(map[int64]error),
		gates:   make(map[int64]chan struct{}),
		started: make(map[int64]chan struct{}),
	}
}

func (f *fakeSlots) hold(lotID int64) (started, release chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[lotID] = make(chan struct{})
	f.started[lotID] = make(chan struct{})
	return f.started[lotID], f.gates[lotID]
}

func (f *fakeSlots) setErr(lotID int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[lotID] = err
}

func (f *fakeSlots) FetchSlotsForLot(ctx context.Context, lotID int64, _, _ time.Time) ([]*domain.Slot, error) {
	f.mu.Lock()
	gate, started := f.gates[lotID], f.started[lotID]
	slots, err := f.byLot[lotID], f.errs[lotID]
	f.mu.Unlock()

	if gate != nil {
		close(started)
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return slots, err
}

// fakeLoader строит индекс из заранее заданных бронирований
type fakeLoader struct {
	mu       sync.Mutex
	bookings map[int64][]*domain.Booking
	err      error
	allFail  bool
	calls    int
}

func (f *fakeLoader) set(bookings map[int64][]*domain.Booking, err error, allFail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings, f.err, f.allFail = bookings, err, allFail
}

func (f *fakeLoader) Load(_ context.Context, slots []*domain.Slot, _ domain.TimeWindow) (*bookingindex.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	res := &bookingindex.Result{Bookings: make(map[int64][]*domain.Booking, len(slots))}
	for _, s := range slots {
		res.Bookings[s.ID] = f.bookings[s.ID]
		if f.allFail {
			res.FailedSlotIDs = append(res.FailedSlotIDs, s.ID)
		}
	}
	res.Summary.FailedSlots = len(res.FailedSlotIDs)
	return res, nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved []*domain.Snapshot
}

func (f *fakeStore) Save(_ context.Context, s *domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return nil
}

type fakeMetrics struct {
	mu     sync.Mutex
	cycles map[string]int
	stale  int
	opened int
	closed int
}

func (f *fakeMetrics) IncRefreshCycle(trigger, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cycles == nil {
		f.cycles = make(map[string]int)
	}
	f.cycles[trigger+"/"+result]++
}

func (f *fakeMetrics) IncStaleDiscarded() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stale++
}

func (f *fakeMetrics) ViewOpened() { f.opened++ }
func (f *fakeMetrics) ViewClosed() { f.closed++ }

type fixture struct {
	view    *View
	slots   *fakeSlots
	loader  *fakeLoader
	store   *fakeStore
	metrics *fakeMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		slots:   newFakeSlots(),
		loader:  &fakeLoader{},
		store:   &fakeStore{},
		metrics: &fakeMetrics{},
	}
	f.slots.byLot[1] = []*domain.Slot{
		{ID: 10, LotID: 1, Number: "A1", Status: domain.SlotAvailable},
		{ID: 11, LotID: 1, Number: "A2", Status: domain.SlotAvailable},
	}
	f.slots.byLot[2] = []*domain.Slot{
		{ID: 20, LotID: 2, Number: "B1", Status: domain.SlotBooked},
	}

	view, err := New(f.slots, f.loader, f.store, f.metrics, Options{
		TickInterval:    time.Hour,
		RefetchInterval: time.Hour,
		Location:        time.UTC,
	}, logger.Nop())
	require.NoError(t, err)
	view.timeProvider = fixedTime{now: testNow}
	t.Cleanup(view.Close)

	f.view = view
	return f
}

func selection(lotID int64, start, end string) Selection {
	day := testDay
	return Selection{LotID: lotID, Date: &day, StartClock: start, EndClock: end}
}

func bookingAt(id, slotID int64, fromHour, toHour int) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		SlotID:      slotID,
		PlateNumber: "51F-123.45",
		StartTime:   testDay.Add(time.Duration(fromHour) * time.Hour),
		EndTime:     testDay.Add(time.Duration(toHour) * time.Hour),
		Status:      domain.BookingConfirmed,
	}
}

func classificationOf(t *testing.T, snap *domain.Snapshot, slotID int64) domain.Classification {
	t.Helper()
	require.NotNil(t, snap)
	for _, r := range snap.Results {
		if r.SlotID == slotID {
			return r.Classification
		}
	}
	t.Fatalf("slot %d not in snapshot", slotID)
	return ""
}

func TestSelect_PublishesSnapshot(t *testing.T) {
	f := newFixture(t)
	f.loader.set(map[int64][]*domain.Booking{10: {bookingAt(1, 10, 14, 15)}}, nil, false)

	err := f.view.Select(context.Background(), selection(1, "13:00", "16:00"))
	require.NoError(t, err)

	snap := f.view.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, int64(1), snap.LotID)
	assert.Equal(t, domain.OverlappingRange, classificationOf(t, snap, 10))
	assert.Equal(t, domain.Available, classificationOf(t, snap, 11))
	assert.NoError(t, f.view.Err())

	ev := <-f.view.Updates()
	assert.Same(t, snap, ev.Snapshot)
	assert.NoError(t, ev.Err)

	assert.Len(t, f.store.saved, 1)
	assert.Equal(t, 1, f.metrics.cycles["selection/ok"])
}

func TestSelect_InvalidWindow(t *testing.T) {
	f := newFixture(t)

	err := f.view.Select(context.Background(), selection(1, "16:00", "13:00"))
	assert.ErrorIs(t, err, ErrInvalidSelection)

	err = f.view.Select(context.Background(), selection(1, "ab:cd", "13:00"))
	assert.ErrorIs(t, err, ErrInvalidSelection)

	err = f.view.Select(context.Background(), selection(0, "", ""))
	assert.ErrorIs(t, err, ErrInvalidSelection)

	assert.Nil(t, f.view.Snapshot())
	assert.Equal(t, 0, f.loader.calls)
}

func TestSelect_SupersededLoadIsDiscarded(t *testing.T) {
	f := newFixture(t)
	started, release := f.slots.hold(1)

	var firstErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		firstErr = f.view.Select(context.Background(), selection(1, "", ""))
	}()

	<-started
	require.NoError(t, f.view.Select(context.Background(), selection(2, "", "")))
	close(release)
	<-done

	require.NoError(t, firstErr)
	snap := f.view.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, int64(2), snap.LotID)
	assert.Equal(t, 1, f.metrics.stale)
	assert.Equal(t, 1, f.metrics.cycles["selection/stale"])
}

func TestRefetch_TimerDuringSelectionLoadKeepsNewSelection(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.view.Select(context.Background(), selection(1, "", "")))
	started, release := f.slots.hold(2)

	var selectErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		selectErr = f.view.Select(context.Background(), selection(2, "", ""))
	}()

	<-started
	f.loader.mu.Lock()
	callsBefore := f.loader.calls
	f.loader.mu.Unlock()

	f.view.onRefetch(context.Background(), scheduler.TriggerTimer)

	f.loader.mu.Lock()
	assert.Equal(t, callsBefore, f.loader.calls)
	f.loader.mu.Unlock()

	close(release)
	<-done

	require.NoError(t, selectErr)
	snap := f.view.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, int64(2), snap.LotID)
	assert.Equal(t, 0, f.metrics.stale)
	assert.Equal(t, 1, f.metrics.cycles["timer/skipped"])

	// после загрузки выбора таймер снова обновляет бронирования нового лота
	f.loader.set(map[int64][]*domain.Booking{20: {bookingAt(1, 20, 8, 10)}}, nil, false)
	f.view.onRefetch(context.Background(), scheduler.TriggerTimer)
	assert.Equal(t, int64(2), f.view.Snapshot().LotID)
	assert.Equal(t, domain.OverlappingRange, classificationOf(t, f.view.Snapshot(), 20))
	assert.Equal(t, 1, f.metrics.cycles["timer/ok"])
}

func TestRefetch_TimerResumesAfterFailedSelection(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.view.Select(context.Background(), selection(1, "", "")))

	f.loader.set(nil, context.DeadlineExceeded, false)
	err := f.view.Select(context.Background(), selection(1, "", ""))
	assert.ErrorIs(t, err, ErrRefreshFailed)
	require.NotNil(t, f.view.Snapshot())

	f.loader.set(nil, nil, false)
	f.view.onRefetch(context.Background(), scheduler.TriggerTimer)
	assert.NoError(t, f.view.Err())
	assert.Equal(t, 1, f.metrics.cycles["timer/ok"])
	assert.Zero(t, f.metrics.cycles["timer/skipped"])
}

func TestSelect_SlotFailureClearsGrid(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.view.Select(context.Background(), selection(1, "", "")))
	require.NotNil(t, f.view.Snapshot())

	f.slots.setErr(2, errors.New("backend down"))
	err := f.view.Select(context.Background(), selection(2, "", ""))

	assert.ErrorIs(t, err, ErrSlotsUnavailable)
	assert.Nil(t, f.view.Snapshot())
	assert.ErrorIs(t, f.view.Err(), ErrSlotsUnavailable)
}

func TestRefetch_FailureKeepsPreviousSnapshot(t *testing.T) {
	f := newFixture(t)
	f.loader.set(map[int64][]*domain.Booking{10: {bookingAt(1, 10, 8, 10)}}, nil, false)
	require.NoError(t, f.view.Select(context.Background(), selection(1, "", "")))
	before := f.view.Snapshot()

	f.loader.set(nil, nil, true)
	f.view.onRefetch(context.Background(), scheduler.TriggerTimer)

	assert.Same(t, before, f.view.Snapshot())
	assert.ErrorIs(t, f.view.Err(), ErrRefreshFailed)
	assert.Equal(t, 1, f.metrics.cycles["timer/failed"])

	f.loader.set(nil, context.DeadlineExceeded, false)
	f.view.onRefetch(context.Background(), scheduler.TriggerTimer)
	assert.Same(t, before, f.view.Snapshot())
}

func TestRefetch_TimerReloadsBookingsOnly(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.view.Select(context.Background(), selection(1, "", "")))
	assert.Equal(t, domain.Available, classificationOf(t, f.view.Snapshot(), 10))

	f.slots.setErr(1, errors.New("must not be called"))
	f.loader.set(map[int64][]*domain.Booking{10: {bookingAt(1, 10, 8, 10)}}, nil, false)
	f.view.onRefetch(context.Background(), scheduler.TriggerTimer)

	assert.NoError(t, f.view.Err())
	assert.Equal(t, domain.OverlappingRange, classificationOf(t, f.view.Snapshot(), 10))
}

func TestRefetch_TimerWithoutSelectionIsNoop(t *testing.T) {
	f := newFixture(t)
	f.view.onRefetch(context.Background(), scheduler.TriggerTimer)

	assert.Equal(t, 0, f.loader.calls)
	assert.Nil(t, f.view.Snapshot())
}

func TestRefetch_ManualFailureOnSameSelectionKeepsSnapshot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.view.Select(context.Background(), selection(1, "", "")))
	before := f.view.Snapshot()

	f.slots.setErr(1, errors.New("timeout"))
	f.view.onRefetch(context.Background(), scheduler.TriggerManual)

	assert.Same(t, before, f.view.Snapshot())
	assert.ErrorIs(t, f.view.Err(), ErrSlotsUnavailable)
}

func TestRequestRefresh_RequiresSelection(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.view.RequestRefresh(), ErrNoSelection)

	require.NoError(t, f.view.Select(context.Background(), selection(1, "", "")))
	assert.NoError(t, f.view.RequestRefresh())
}

func TestTick_PublishesOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	// окно 12:00-13:00, бронирование 9:00-10:00 не пересекается с ним, но активно сейчас
	f.loader.set(map[int64][]*domain.Booking{10: {bookingAt(1, 10, 9, 10)}}, nil, false)
	require.NoError(t, f.view.Select(context.Background(), selection(1, "12:00", "13:00")))
	<-f.view.Updates()
	first := f.view.Snapshot()
	assert.Equal(t, domain.ActiveNow, classificationOf(t, first, 10))

	// тот же статус, но текст обратного отсчета изменился
	f.view.onTick(testNow.Add(30 * time.Minute))
	second := f.view.Snapshot()
	assert.NotSame(t, first, second)
	assert.Equal(t, domain.ActiveNow, classificationOf(t, second, 10))
	<-f.view.Updates()

	// бронирование закончилось
	f.view.onTick(testNow.Add(2 * time.Hour))
	third := f.view.Snapshot()
	assert.Equal(t, domain.Available, classificationOf(t, third, 10))
	<-f.view.Updates()

	// ничего не изменилось - публикации нет
	f.view.onTick(testNow.Add(2 * time.Hour))
	assert.Same(t, third, f.view.Snapshot())
	select {
	case ev := <-f.view.Updates():
		t.Fatalf("unexpected update: %+v", ev)
	default:
	}
}

func TestUpdates_LatestWins(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < updatesBuffer*3; i++ {
		require.NoError(t, f.view.Select(context.Background(), selection(1, "", "")))
	}

	var last Event
	for i := 0; i < updatesBuffer; i++ {
		last = <-f.view.Updates()
	}
	assert.Same(t, f.view.Snapshot(), last.Snapshot)
}

func TestClose_Idempotent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.view.Select(context.Background(), selection(1, "", "")))

	f.view.Close()
	f.view.Close()

	assert.Equal(t, 1, f.metrics.opened)
	assert.Equal(t, 1, f.metrics.closed)
	assert.ErrorIs(t, f.view.Select(context.Background(), selection(1, "", "")), ErrClosed)
	assert.ErrorIs(t, f.view.RequestRefresh(), ErrClosed)

	for range f.view.Updates() {
	}
}
