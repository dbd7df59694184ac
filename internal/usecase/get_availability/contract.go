package get_availability

import (
	"context"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
)

// BookingRepository is the ledger surface the use case needs.
type BookingRepository interface {
	GetWithFilter(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Booking, error)
}

// ScheduleRepository reads the per-weekday slot configuration.
type ScheduleRepository interface {
	GetWorkingDay(ctx context.Context, day time.Weekday) (*domain.WorkingDay, error)
}

// ClosureRepository reads the closure calendars.
type ClosureRepository interface {
	ListFromDate(ctx context.Context, set *domain.ClosureSet, fromDate time.Time) ([]domain.ClosureDate, error)
}

// Logger is the logging surface the use case needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
