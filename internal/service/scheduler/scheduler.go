package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler владеет двумя именованными таймерами:
//   - tick: часы для пересчета "active-now" и обратного отсчета, без загрузки данных;
//   - refetch: повторная загрузка бронирований.
//
// Повторов с backoff нет: каждый цикл независим.
type Scheduler struct {
	tickInterval    time.Duration
	refetchInterval time.Duration
	handlers        Handlers
	timeProvider    TimeProvider
	logger          Logger

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc

	triggerCh chan struct{}
	loopDone  chan struct{}
	inFlight  atomic.Bool
	refetches sync.WaitGroup
}

// New создает планировщик. Таймеры запускаются только в Start.
func New(tickInterval, refetchInterval time.Duration, handlers Handlers, logger Logger) (*Scheduler, error) {
	if tickInterval <= 0 || refetchInterval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Scheduler{
		tickInterval:    tickInterval,
		refetchInterval: refetchInterval,
		handlers:        handlers,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		triggerCh:       make(chan struct{}, 1),
		loopDone:        make(chan struct{}),
	}, nil
}

// Start запускает оба таймера
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.started = true

	go s.loop(ctx)

	s.logger.Debug("Scheduler: started (tick=%s, refetch=%s)", s.tickInterval, s.refetchInterval)
	return nil
}

// Stop останавливает таймеры, отменяет текущую загрузку и ждет завершения обработчиков.
// Повторный вызов безопасен.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	cancel := s.cancel
	s.mu.Unlock()

	if !started {
		return
	}

	cancel()
	<-s.loopDone
	s.refetches.Wait()

	s.logger.Debug("Scheduler: stopped")
}

// Trigger запрашивает внеочередную загрузку. Повторные запросы до ее начала схлопываются.
func (s *Scheduler) Trigger() {
	select {
	case s.triggerCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.loopDone)

	tick := time.NewTicker(s.tickInterval)
	defer tick.Stop()
	refetch := time.NewTicker(s.refetchInterval)
	defer refetch.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-tick.C:
			if s.handlers.OnTick != nil {
				s.handlers.OnTick(s.timeProvider.Now())
			}

		case <-refetch.C:
			if s.inFlight.Load() {
				s.logger.Debug("Scheduler: refetch skipped, previous one still in flight")
				continue
			}
			s.runRefetch(ctx, TriggerTimer)

		case <-s.triggerCh:
			s.runRefetch(ctx, TriggerManual)
		}
	}
}

// runRefetch выполняет загрузку вне цикла, чтобы тики продолжали идти
func (s *Scheduler) runRefetch(ctx context.Context, trigger Trigger) {
	if s.handlers.OnRefetch == nil {
		return
	}

	s.inFlight.Store(true)
	s.refetches.Add(1)
	go func() {
		defer s.refetches.Done()
		defer s.inFlight.Store(false)
		s.handlers.OnRefetch(ctx, trigger)
	}()
}
