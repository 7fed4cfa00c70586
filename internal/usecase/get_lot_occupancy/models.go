package get_lot_occupancy

import (
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// Request модель запроса на расчет занятости лота
type Request struct {
	LotID     int64      // ID парковки
	Date      *time.Time // Дата (nil - сегодня в часовом поясе сервиса)
	StartTime string     // Начало окна "HH:mm" (пусто - "00:00")
	EndTime   string     // Конец окна "HH:mm" (пусто - "23:59")
}

// Response модель ответа с занятостью слотов
type Response struct {
	LotID         int64
	Window        domain.TimeWindow
	GeneratedAt   time.Time
	Slots         []domain.OccupancyResult
	Summary       domain.LotSummary
	FailedSlotIDs []int64 // слоты, чьи бронирования не удалось загрузить
}
