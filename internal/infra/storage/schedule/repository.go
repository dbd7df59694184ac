package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/pkg/dbmetrics"
	"github.com/krish-ktm/clinic-booking-service/pkg/psqlbuilder"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// Repository reads and writes the per-weekday slot schedule.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a schedule repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWorkingDay fetches one weekday's configuration with its slots in
// configured order. Returns ErrDayNotFound when the weekday was never
// configured.
func (r *Repository) GetWorkingDay(ctx context.Context, day time.Weekday) (*domain.WorkingDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("day", "is_working", "created_at", "updated_at").
		From("working_days").
		Where(squirrel.Eq{"day": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingDay - build select query: %v", ErrBuildQuery, err)
	}

	var workingDay domain.WorkingDay
	var dayNum int
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&dayNum,
		&workingDay.IsWorking,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingDay - scan working day: %v", ErrScanRow, err)
	}

	workingDay.Day = time.Weekday(dayNum)
	workingDay.CreatedAt = createdAt.Time
	workingDay.UpdatedAt = updatedAt.Time

	slots, err := r.getSlots(ctx, day)
	if err != nil {
		return nil, err
	}
	workingDay.Slots = slots

	return &workingDay, nil
}

// GetWeek fetches every configured weekday, Sunday first.
func (r *Repository) GetWeek(ctx context.Context) ([]*domain.WorkingDay, error) {
	days := make([]*domain.WorkingDay, 0, 7)

	for d := time.Sunday; d <= time.Saturday; d++ {
		day, err := r.GetWorkingDay(ctx, d)
		if err != nil {
			if err == ErrDayNotFound {
				continue
			}
			return nil, err
		}
		days = append(days, day)
	}

	return days, nil
}

// UpsertWorkingDay replaces a weekday's configuration and slot list. Intended
// to run inside a transaction so the delete-and-insert of slots is atomic.
func (r *Repository) UpsertWorkingDay(ctx context.Context, day *domain.WorkingDay) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("working_days").
		Columns("day", "is_working").
		Values(int(day.Day), day.IsWorking).
		Suffix("ON CONFLICT (day) DO UPDATE SET is_working = EXCLUDED.is_working, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertWorkingDay - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertWorkingDay - execute upsert: %v", ErrExecQuery, err)
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("working_day_slots").
		Where(squirrel.Eq{"day": int(day.Day)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertWorkingDay - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: UpsertWorkingDay - execute delete: %v", ErrExecQuery, err)
	}

	if len(day.Slots) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("working_day_slots").
		Columns("day", "slot_time", "max_bookings", "position")
	for i, slot := range day.Slots {
		insertBuilder = insertBuilder.Values(int(day.Day), slot.Time, slot.MaxBookings, i)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertWorkingDay - build slot insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: UpsertWorkingDay - execute slot insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getSlots(ctx context.Context, day time.Weekday) ([]domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_time", "max_bookings").
		From("working_day_slots").
		Where(squirrel.Eq{"day": int(day)}).
		OrderBy("position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var slot domain.Slot
		var slotTime string
		if err := rows.Scan(&slotTime, &slot.MaxBookings); err != nil {
			return nil, fmt.Errorf("%w: getSlots - scan row: %v", ErrScanRow, err)
		}
		slot.Time = types.TimeString(slotTime)
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
