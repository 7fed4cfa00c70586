package health

import "context"

// Check проверка одной зависимости сервиса
type Check func(ctx context.Context) error

type Logger interface {
	Warn(format string, v ...interface{})
}
