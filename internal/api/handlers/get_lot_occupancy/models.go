package get_lot_occupancy

import (
	"time"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	getLotOccupancy "github.com/m04kA/SMC-ParkingOccupancy/internal/usecase/get_lot_occupancy"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/ptr"
)

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getLotOccupancy.Response) *handlers.SnapshotResponse {
	out := handlers.NewSnapshotResponse(resp.LotID, resp.Window, 0, resp.GeneratedAt, resp.Slots, resp.Summary)
	out.FailedSlotIDs = resp.FailedSlotIDs
	return out
}

// ToUseCaseRequest создает запрос use case из query параметров.
// Пустая дата означает сегодня, время проверяется в use case.
func ToUseCaseRequest(lotID int64, dateStr, startTime, endTime string) (*getLotOccupancy.Request, error) {
	req := &getLotOccupancy.Request{
		LotID:     lotID,
		StartTime: startTime,
		EndTime:   endTime,
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = ptr.Ptr(date)
	}

	return req, nil
}
