package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/psqlbuilder"
)

// Repository репозиторий бронирований слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FetchBookingsForSlot получает бронирования слота, пересекающиеся с диапазоном [start, end].
// Отмененные бронирования тоже возвращаются: их отбрасывает классификатор.
func (r *Repository) FetchBookingsForSlot(ctx context.Context, slotID int64, start, end time.Time) ([]*domain.Booking, error) {
	query, args, err := selectBookingsForSlot(slotID, start, end).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchBookingsForSlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchBookingsForSlot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

func selectBookingsForSlot(slotID int64, start, end time.Time) squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"slot_id",
		"plate_number",
		"start_time",
		"end_time",
		"status",
	).
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.LtOrEq{"start_time": end}).
		Where(squirrel.GtOrEq{"end_time": start}).
		OrderBy("start_time")
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var status string

		err := rows.Scan(
			&booking.ID,
			&booking.SlotID,
			&booking.PlateNumber,
			&booking.StartTime,
			&booking.EndTime,
			&status,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.Status = domain.BookingStatus(status)
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows iteration: %v", ErrScanRow, err)
	}

	return bookings, nil
}
