package scheduler

import (
	"context"
	"time"
)

// Trigger причина внеочередного или планового запуска загрузки
type Trigger string

const (
	// TriggerTimer плановый запуск по таймеру refetch
	TriggerTimer Trigger = "timer"
	// TriggerManual явный запрос пользователя (кнопка "Xem")
	TriggerManual Trigger = "manual"
)

// Handlers обработчики двух таймеров планировщика
type Handlers struct {
	// OnTick вызывается на каждом тике часов, только пересчитывает состояние
	OnTick func(now time.Time)
	// OnRefetch вызывается по таймеру refetch и по Trigger
	OnRefetch func(ctx context.Context, trigger Trigger)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
