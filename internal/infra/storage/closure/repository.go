package closure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/pkg/dbmetrics"
	"github.com/krish-ktm/clinic-booking-service/pkg/psqlbuilder"
)

// Repository reads and writes the two closure calendars.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a closure repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListFromDate returns closure dates on or after fromDate, one batched read
// for a whole availability window. A nil set returns both sets.
func (r *Repository) ListFromDate(ctx context.Context, set *domain.ClosureSet, fromDate time.Time) ([]domain.ClosureDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "closure_set", "closure_date", "reason", "created_at").
		From("closure_dates").
		Where(squirrel.GtOrEq{"closure_date": domain.DateOnly(fromDate)}).
		OrderBy("closure_date ASC")

	if set != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"closure_set": *set})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFromDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListFromDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	closures := make([]domain.ClosureDate, 0)
	for rows.Next() {
		var c domain.ClosureDate
		var createdAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.Set, &c.Date, &c.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListFromDate - scan row: %v", ErrScanRow, err)
		}
		c.CreatedAt = createdAt.Time
		closures = append(closures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListFromDate - rows error: %v", ErrScanRow, err)
	}

	return closures, nil
}

// Create adds a date to a closure set. Dates are unique within a set.
func (r *Repository) Create(ctx context.Context, c *domain.ClosureDate) (*domain.ClosureDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("closure_dates").
		Columns("closure_set", "closure_date", "reason").
		Values(c.Set, domain.DateOnly(c.Date), c.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &createdAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateClosure
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	c.CreatedAt = createdAt.Time
	return c, nil
}

// DeleteByDate removes a date from a closure set.
func (r *Repository) DeleteByDate(ctx context.Context, set domain.ClosureSet, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("closure_dates").
		Where(squirrel.Eq{"closure_set": set}).
		Where(squirrel.Eq{"closure_date": domain.DateOnly(date)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByDate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrClosureNotFound
	}

	return nil
}
