package parkingbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
)

// Client клиент для работы с parking backend (источник слотов и бронирований)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewClient создает новый экземпляр клиента parking backend
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FetchSlotsForLot получает все слоты лота с сохраненным статусом и припаркованной машиной
func (c *Client) FetchSlotsForLot(ctx context.Context, lotID int64, start, end time.Time) ([]*domain.Slot, error) {
	endpoint := fmt.Sprintf("%s/lots/%d/slots?%s", c.baseURL, lotID, rangeQuery(start, end))

	var slots []Slot
	status, err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &slots)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: id=%d", ErrLotNotFound, lotID)
	}

	result := make([]*domain.Slot, 0, len(slots))
	for i := range slots {
		result = append(result, slots[i].toDomain())
	}

	c.log.Info("ParkingBackend: fetched %d slots for lot=%d", len(result), lotID)
	return result, nil
}

// FetchBookingsForSlot получает бронирования слота, относящиеся к диапазону.
// Backend фильтрует по диапазону сам, клиентская проверка пересечения выполняется отдельно.
func (c *Client) FetchBookingsForSlot(ctx context.Context, slotID int64, start, end time.Time) ([]*domain.Booking, error) {
	endpoint := fmt.Sprintf("%s/slots/%d/bookings?%s", c.baseURL, slotID, rangeQuery(start, end))

	var bookings []Booking
	status, err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &bookings)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: id=%d", ErrSlotNotFound, slotID)
	}

	result := make([]*domain.Booking, 0, len(bookings))
	for i := range bookings {
		result = append(result, bookings[i].toDomain())
	}
	return result, nil
}

// UpdateSlotStatus передает ручное изменение статуса слота
func (c *Client) UpdateSlotStatus(ctx context.Context, lotID, slotID int64, update domain.SlotStatusUpdate) (*domain.Slot, error) {
	endpoint := fmt.Sprintf("%s/lots/%d/slots/%d/status", c.baseURL, lotID, slotID)

	body := UpdateSlotStatusRequest{
		Status:  string(update.Status),
		Vehicle: vehicleFromDomain(update.Vehicle),
	}

	var slot Slot
	status, err := c.doJSON(ctx, http.MethodPut, endpoint, body, &slot)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: lot=%d slot=%d", ErrSlotNotFound, lotID, slotID)
	}

	c.log.Info("ParkingBackend: slot id=%d status updated to %s", slotID, slot.Status)
	return slot.toDomain(), nil
}

// doJSON выполняет запрос и декодирует ответ 200 в out.
// 404 возвращается вызывающему коду без ошибки, остальные коды считаются ошибкой.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out interface{}) (int, error) {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return resp.StatusCode, nil
	case http.StatusBadRequest:
		var errResp ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return resp.StatusCode, fmt.Errorf("%w: bad request: %s", ErrInvalidResponse, errResp.Message)
	default:
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn("ParkingBackend: %s %s returned %d", method, endpoint, resp.StatusCode)
		return resp.StatusCode, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return resp.StatusCode, nil
}

// rangeQuery кодирует диапазон в ISO-8601 с миллисекундами
func rangeQuery(start, end time.Time) string {
	q := url.Values{}
	q.Set("startTime", start.Format(isoMillis))
	q.Set("endTime", end.Format(isoMillis))
	return q.Encode()
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"
