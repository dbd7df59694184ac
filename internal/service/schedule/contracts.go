package schedule

import (
	"context"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
)

// ScheduleRepository manages the per-weekday slot configuration.
type ScheduleRepository interface {
	GetWorkingDay(ctx context.Context, day time.Weekday) (*domain.WorkingDay, error)
	GetWeek(ctx context.Context) ([]*domain.WorkingDay, error)
	UpsertWorkingDay(ctx context.Context, day *domain.WorkingDay) error
}

// ClosureRepository manages the closure calendars.
type ClosureRepository interface {
	ListFromDate(ctx context.Context, set *domain.ClosureSet, fromDate time.Time) ([]domain.ClosureDate, error)
	Create(ctx context.Context, c *domain.ClosureDate) (*domain.ClosureDate, error)
	DeleteByDate(ctx context.Context, set domain.ClosureSet, date time.Time) error
}

// SettingsRepository manages the patient-flow booking settings singleton.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.BookingSettings, error)
	Update(ctx context.Context, s *domain.BookingSettings) error
}

// TransactionManager wraps multi-statement writes.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging surface the service needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
