package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/pkg/dbmetrics"
	"github.com/krish-ktm/clinic-booking-service/pkg/psqlbuilder"
)

// singletonID is the fixed primary key of the booking_settings row.
const singletonID = 1

// Repository reads and writes the singleton patient-flow booking settings.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a settings repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get loads the settings singleton with its date-selection options. The loaded
// struct is validated so malformed stored configuration is rejected at read
// time instead of flowing into the validator.
func (r *Repository) Get(ctx context.Context) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"min_days_ahead",
		"max_days_ahead",
		"allow_weekends",
		"allow_past_dates",
		"updated_at",
	).
		From("booking_settings").
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.BookingSettings
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.Restrictions.MinDaysAhead,
		&s.Restrictions.MaxDaysAhead,
		&s.Restrictions.AllowWeekends,
		&s.Restrictions.AllowPastDates,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}
	s.UpdatedAt = updatedAt.Time

	options, err := r.getOptions(ctx)
	if err != nil {
		return nil, err
	}
	s.DateSelectionOptions = options

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: Get - stored settings invalid: %v", ErrScanRow, err)
	}

	return &s, nil
}

// Update replaces the settings singleton and its option rows. Intended to run
// inside a transaction.
func (r *Repository) Update(ctx context.Context, s *domain.BookingSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_settings").
		Columns("id", "min_days_ahead", "max_days_ahead", "allow_weekends", "allow_past_dates").
		Values(
			singletonID,
			s.Restrictions.MinDaysAhead,
			s.Restrictions.MaxDaysAhead,
			s.Restrictions.AllowWeekends,
			s.Restrictions.AllowPastDates,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			min_days_ahead = EXCLUDED.min_days_ahead,
			max_days_ahead = EXCLUDED.max_days_ahead,
			allow_weekends = EXCLUDED.allow_weekends,
			allow_past_dates = EXCLUDED.allow_past_dates,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Update - execute upsert: %v", ErrExecQuery, err)
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("date_selection_options").ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build option delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: Update - execute option delete: %v", ErrExecQuery, err)
	}

	if len(s.DateSelectionOptions) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("date_selection_options").
		Columns("mode", "enabled", "label_en", "label_gu", "days", "max_days_ahead", "position")
	for i, opt := range s.DateSelectionOptions {
		insertBuilder = insertBuilder.Values(
			opt.Mode, opt.Enabled, opt.Label.En, opt.Label.Gu, opt.Days, opt.MaxDaysAhead, i,
		)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build option insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: Update - execute option insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getOptions(ctx context.Context) ([]domain.DateSelectionOption, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("mode", "enabled", "label_en", "label_gu", "days", "max_days_ahead").
		From("date_selection_options").
		OrderBy("position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getOptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getOptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	options := make([]domain.DateSelectionOption, 0)
	for rows.Next() {
		var opt domain.DateSelectionOption
		if err := rows.Scan(&opt.Mode, &opt.Enabled, &opt.Label.En, &opt.Label.Gu, &opt.Days, &opt.MaxDaysAhead); err != nil {
			return nil, fmt.Errorf("%w: getOptions - scan row: %v", ErrScanRow, err)
		}
		options = append(options, opt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getOptions - rows error: %v", ErrScanRow, err)
	}

	return options, nil
}
