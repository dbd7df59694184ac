package validate_booking

import (
	"context"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
)

// BookingRepository is the ledger surface the use case needs.
type BookingRepository interface {
	GetWithFilter(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Booking, error)
	FindOpenForRequester(ctx context.Context, flow domain.Flow, requesterKey string, fromDate time.Time) (*domain.Booking, error)
}

// ScheduleRepository reads the per-weekday slot configuration.
type ScheduleRepository interface {
	GetWorkingDay(ctx context.Context, day time.Weekday) (*domain.WorkingDay, error)
}

// ClosureRepository reads the closure calendars.
type ClosureRepository interface {
	ListFromDate(ctx context.Context, set *domain.ClosureSet, fromDate time.Time) ([]domain.ClosureDate, error)
}

// SettingsRepository reads the patient-flow booking settings.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.BookingSettings, error)
}

// TimeProvider supplies the current time (swappable in tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging surface the use case needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production time provider.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
