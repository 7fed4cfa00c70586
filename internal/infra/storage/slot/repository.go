package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"gopkg.in/guregu/null.v4"

	"github.com/m04kA/SMC-ParkingOccupancy/internal/domain"
	"github.com/m04kA/SMC-ParkingOccupancy/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"lot_id",
	"slot_number",
	"zone_name",
	"status",
	"vehicle_plate",
	"vehicle_type",
	"vehicle_owner",
}

// Repository репозиторий слотов парковки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FetchSlotsForLot получает все слоты лота.
// Диапазон времени не влияет на состав слотов, слоты не версионируются по времени.
func (r *Repository) FetchSlotsForLot(ctx context.Context, lotID int64, _, _ time.Time) ([]*domain.Slot, error) {
	query, args, err := selectSlotsByLot(lotID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchSlotsForLot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchSlotsForLot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		return nil, err
	}

	// Пустой список допустим только для существующего лота
	if len(slots) == 0 {
		exists, err := r.lotExists(ctx, lotID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: id=%d", ErrLotNotFound, lotID)
		}
	}

	return slots, nil
}

// UpdateSlotStatus сохраняет ручное изменение статуса слота и машину (или ее отсутствие)
func (r *Repository) UpdateSlotStatus(ctx context.Context, lotID, slotID int64, update domain.SlotStatusUpdate) (*domain.Slot, error) {
	query, args, err := updateSlotStatus(lotID, slotID, update).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateSlotStatus - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: lot=%d slot=%d", ErrSlotNotFound, lotID, slotID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateSlotStatus - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

func (r *Repository) lotExists(ctx context.Context, lotID int64) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("parking_lots").
		Where(squirrel.Eq{"id": lotID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: lotExists - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: lotExists - scan: %v", ErrScanRow, err)
	}
	return exists, nil
}

func selectSlotsByLot(lotID int64) squirrel.SelectBuilder {
	return psqlbuilder.Select(slotColumns...).
		From("parking_slots").
		Where(squirrel.Eq{"lot_id": lotID}).
		OrderBy("zone_name", "slot_number", "id")
}

func updateSlotStatus(lotID, slotID int64, update domain.SlotStatusUpdate) squirrel.UpdateBuilder {
	plate, vehicleType, owner := null.String{}, null.String{}, null.String{}
	if update.Vehicle != nil {
		plate = null.StringFrom(update.Vehicle.PlateNumber)
		vehicleType = null.NewString(update.Vehicle.Type, update.Vehicle.Type != "")
		owner = null.NewString(update.Vehicle.Owner, update.Vehicle.Owner != "")
	}

	return psqlbuilder.Update("parking_slots").
		Set("status", string(update.Status)).
		Set("vehicle_plate", plate).
		Set("vehicle_type", vehicleType).
		Set("vehicle_owner", owner).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID, "lot_id": lotID}).
		Suffix("RETURNING " + strings.Join(slotColumns, ", "))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var (
		slot                      domain.Slot
		zone                      null.String
		status                    string
		plate, vehicleType, owner null.String
	)

	if err := row.Scan(&slot.ID, &slot.LotID, &slot.Number, &zone, &status, &plate, &vehicleType, &owner); err != nil {
		return nil, err
	}

	slot.Zone = zone.String
	slot.Status = domain.SlotStatus(status)
	if plate.Valid && plate.String != "" {
		slot.Vehicle = &domain.Vehicle{
			PlateNumber: plate.String,
			Type:        vehicleType.String,
			Owner:       owner.String,
		}
	}
	return &slot, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows iteration: %v", ErrScanRow, err)
	}
	return slots, nil
}
