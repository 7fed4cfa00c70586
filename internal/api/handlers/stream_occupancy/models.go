package stream_occupancy

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/liveview"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/ptr"
)

// Типы сообщений клиента
const (
	clientSelect  = "select"
	clientRefresh = "refresh"
)

// Типы сообщений сервера
const (
	serverSnapshot = "snapshot"
	serverError    = "error"
)

// ClientMessage сообщение от клиента
type ClientMessage struct {
	Type      string `json:"type"`
	LotID     int64  `json:"lotId,omitempty"` // по умолчанию лот из URL
	Date      string `json:"date,omitempty"`  // YYYY-MM-DD, пусто - сегодня
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// ServerMessage сообщение клиенту: снимок или ошибка (со снимком, если он сохранился)
type ServerMessage struct {
	Type     string                     `json:"type"`
	ViewID   string                     `json:"viewId"`
	Message  string                     `json:"message,omitempty"`
	Snapshot *handlers.SnapshotResponse `json:"snapshot,omitempty"`
}

// ToSelection создает выбор из сообщения клиента
func (m *ClientMessage) ToSelection(defaultLotID int64) (liveview.Selection, error) {
	sel := liveview.Selection{
		LotID:      defaultLotID,
		StartClock: m.StartTime,
		EndClock:   m.EndTime,
	}
	if m.LotID != 0 {
		sel.LotID = m.LotID
	}
	if m.Date != "" {
		date, err := time.Parse(domain.DateFormat, m.Date)
		if err != nil {
			return sel, err
		}
		sel.Date = ptr.Ptr(date)
	}
	return sel, nil
}

func fromEvent(viewID string, ev liveview.Event) ServerMessage {
	msg := ServerMessage{Type: serverSnapshot, ViewID: viewID}
	if ev.Snapshot != nil {
		msg.Snapshot = handlers.FromSnapshot(ev.Snapshot)
	}
	if ev.Err != nil {
		msg.Type = serverError
		msg.Message = eventMessage(ev.Err)
	}
	return msg
}

// eventMessage текст ошибки цикла для клиента, детали остаются в логах
func eventMessage(err error) string {
	switch {
	case errors.Is(err, liveview.ErrSlotsUnavailable):
		return msgSlotsUnavailable
	case errors.Is(err, liveview.ErrInvalidSelection):
		return msgInvalidSelection
	default:
		return msgRefreshFailed
	}
}
