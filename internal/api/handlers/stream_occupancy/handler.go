package stream_occupancy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/service/liveview"
)

const (
	msgInvalidLotID     = "некорректный ID парковки"
	msgViewUnavailable  = "не удалось открыть представление"
	msgInvalidMessage   = "некорректное сообщение"
	msgInvalidSelection = "некорректный выбор: ожидается дата YYYY-MM-DD, время HH:mm и конец позже начала"
	msgNoSelection      = "парковка не выбрана"
	msgSlotsUnavailable = "не удалось загрузить слоты парковки"
	msgRefreshFailed    = "не удалось обновить бронирования, показан предыдущий снимок"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	replyQueue     = 4
	selectQueue    = 1
	maxMessageSize = 4096
)

type Handler struct {
	openView ViewFactory
	upgrader websocket.Upgrader
	logger   Logger
}

func NewHandler(openView ViewFactory, logger Logger) *Handler {
	return &Handler{
		openView: openView,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handle GET /api/v1/lots/{lotId}/occupancy/live
// Query params (необязательные): date, startTime, endTime - начальный выбор.
// Клиент шлет {"type":"select",...} или {"type":"refresh"}, сервер пушит снимки и ошибки.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.ParseInt(mux.Vars(r)["lotId"], 10, 64)
	if err != nil || lotID <= 0 {
		h.logger.Warn("GET /lots/{id}/occupancy/live - Invalid lot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLotID)
		return
	}

	view, err := h.openView()
	if err != nil {
		h.logger.Error("GET /lots/{id}/occupancy/live - Failed to open view: lot_id=%d, error=%v", lotID, err)
		handlers.RespondInternalError(w)
		return
	}
	defer view.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту
		h.logger.Warn("GET /lots/{id}/occupancy/live - Failed to upgrade: %v", err)
		return
	}
	defer conn.Close()

	viewID := view.ID().String()
	h.logger.Info("GET /lots/{id}/occupancy/live - Connected: lot_id=%d, view_id=%s", lotID, viewID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	replies := make(chan ServerMessage, replyQueue)
	writerDone := make(chan struct{})
	go h.writeLoop(ctx, cancel, conn, view, viewID, replies, writerDone)

	selections := make(chan liveview.Selection, selectQueue)
	selectorDone := make(chan struct{})
	go h.selectLoop(ctx, view, viewID, selections, replies, selectorDone)

	initial := ClientMessage{
		Type:      clientSelect,
		Date:      r.URL.Query().Get("date"),
		StartTime: r.URL.Query().Get("startTime"),
		EndTime:   r.URL.Query().Get("endTime"),
	}
	h.handleMessage(ctx, view, lotID, viewID, &initial, selections, replies)

	h.readLoop(ctx, conn, view, lotID, viewID, selections, replies)

	cancel()
	<-selectorDone
	<-writerDone
	h.logger.Info("GET /lots/{id}/occupancy/live - Disconnected: lot_id=%d, view_id=%s", lotID, viewID)
}

// readLoop читает сообщения клиента до разрыва соединения
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, view LiveView, lotID int64, viewID string, selections chan liveview.Selection, replies chan<- ServerMessage) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("WS view_id=%s: read failed: %v", viewID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Warn("WS view_id=%s: malformed message: %v", viewID, err)
			h.reply(ctx, replies, ServerMessage{Type: serverError, ViewID: viewID, Message: msgInvalidMessage})
			continue
		}

		h.handleMessage(ctx, view, lotID, viewID, &msg, selections, replies)
	}
}

func (h *Handler) handleMessage(ctx context.Context, view LiveView, lotID int64, viewID string, msg *ClientMessage, selections chan liveview.Selection, replies chan<- ServerMessage) {
	switch msg.Type {
	case clientSelect:
		sel, err := msg.ToSelection(lotID)
		if err != nil {
			h.logger.Warn("WS view_id=%s: invalid date %q: %v", viewID, msg.Date, err)
			h.reply(ctx, replies, ServerMessage{Type: serverError, ViewID: viewID, Message: msgInvalidSelection})
			return
		}
		enqueueSelection(selections, sel)

	case clientRefresh:
		if err := view.RequestRefresh(); err != nil {
			h.logger.Warn("WS view_id=%s: refresh rejected: %v", viewID, err)
			h.reply(ctx, replies, ServerMessage{Type: serverError, ViewID: viewID, Message: msgNoSelection})
		}

	default:
		h.reply(ctx, replies, ServerMessage{Type: serverError, ViewID: viewID, Message: msgInvalidMessage})
	}
}

// selectLoop выполняет загрузки выбора вне readLoop, по одной за раз.
// Ошибки загрузки приходят через Updates, здесь отвечаем только на ошибки выбора.
func (h *Handler) selectLoop(ctx context.Context, view LiveView, viewID string, selections <-chan liveview.Selection, replies chan<- ServerMessage, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case sel := <-selections:
			if err := view.Select(ctx, sel); errors.Is(err, liveview.ErrInvalidSelection) {
				h.logger.Warn("WS view_id=%s: invalid selection: %v", viewID, err)
				h.reply(ctx, replies, ServerMessage{Type: serverError, ViewID: viewID, Message: msgInvalidSelection})
			}
		}
	}
}

// enqueueSelection кладет выбор в очередь, вытесняя еще не начатый предыдущий
func enqueueSelection(selections chan liveview.Selection, sel liveview.Selection) {
	for {
		select {
		case selections <- sel:
			return
		default:
			select {
			case <-selections:
			default:
			}
		}
	}
}

// writeLoop единственный писатель в соединение
// При ошибке записи закрывает соединение, чтобы readLoop тоже завершился.
func (h *Handler) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, view LiveView, viewID string, replies <-chan ServerMessage, done chan<- struct{}) {
	defer close(done)
	defer cancel()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	updates := view.Updates()
	for {
		var msg ServerMessage
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.logger.Warn("WS view_id=%s: ping failed: %v", viewID, err)
				_ = conn.Close()
				return
			}
			continue

		case ev, ok := <-updates:
			if !ok {
				return
			}
			msg = fromEvent(viewID, ev)

		case msg = <-replies:
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Warn("WS view_id=%s: write failed: %v", viewID, err)
			_ = conn.Close()
			return
		}
	}
}

func (h *Handler) reply(ctx context.Context, replies chan<- ServerMessage, msg ServerMessage) {
	select {
	case replies <- msg:
	case <-ctx.Done():
	}
}
