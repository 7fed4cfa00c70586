package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingOccupancy/pkg/logger"
)

func TestNew_InvalidInterval(t *testing.T) {
	_, err := New(0, time.Second, Handlers{}, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = New(time.Second, -time.Second, Handlers{}, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestScheduler_FiresBothTimers(t *testing.T) {
	var ticks, timerRefetches atomic.Int32

	s, err := New(5*time.Millisecond, 20*time.Millisecond, Handlers{
		OnTick: func(time.Time) { ticks.Add(1) },
		OnRefetch: func(_ context.Context, trigger Trigger) {
			if trigger == TriggerTimer {
				timerRefetches.Add(1)
			}
		},
	}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return ticks.Load() >= 3 && timerRefetches.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_TickIsIndependentFromRefetch(t *testing.T) {
	var ticks atomic.Int32
	release := make(chan struct{})

	s, err := New(5*time.Millisecond, 10*time.Millisecond, Handlers{
		OnTick: func(time.Time) { ticks.Add(1) },
		OnRefetch: func(ctx context.Context, _ Trigger) {
			select {
			case <-release:
			case <-ctx.Done():
			}
		},
	}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	// загрузка висит, а часы продолжают тикать
	assert.Eventually(t, func() bool { return ticks.Load() >= 10 }, time.Second, 5*time.Millisecond)
	close(release)
}

func TestScheduler_Trigger(t *testing.T) {
	manual := make(chan struct{}, 1)

	s, err := New(time.Hour, time.Hour, Handlers{
		OnRefetch: func(_ context.Context, trigger Trigger) {
			if trigger == TriggerManual {
				manual <- struct{}{}
			}
		},
	}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	s.Trigger()

	select {
	case <-manual:
	case <-time.After(time.Second):
		t.Fatal("manual refetch was not run")
	}
}

func TestScheduler_StopHaltsTimersAndCancelsRefetch(t *testing.T) {
	var ticks atomic.Int32
	running := make(chan struct{})
	cancelled := make(chan struct{})

	s, err := New(2*time.Millisecond, time.Hour, Handlers{
		OnTick: func(time.Time) { ticks.Add(1) },
		OnRefetch: func(ctx context.Context, _ Trigger) {
			close(running)
			<-ctx.Done()
			close(cancelled)
		},
	}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Start())

	s.Trigger()
	<-running
	assert.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, 2*time.Millisecond)

	s.Stop()
	<-cancelled

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after Stop")

	s.Stop() // идемпотентно
	assert.ErrorIs(t, s.Start(), ErrStopped)
}

func TestScheduler_DoubleStart(t *testing.T) {
	s, err := New(time.Hour, time.Hour, Handlers{}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.ErrorIs(t, s.Start(), ErrAlreadyRunning)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s, err := New(time.Hour, time.Hour, Handlers{}, logger.Nop())
	require.NoError(t, err)

	assert.NotPanics(t, s.Stop)
}
