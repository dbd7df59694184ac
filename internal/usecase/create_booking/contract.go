package create_booking

import (
	"context"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/internal/integrations/smsgateway"
)

// BookingRepository is the ledger surface the use case needs.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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

// TransactionManager runs the read-validate-write sequence serializably.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SMSSender delivers the best-effort confirmation text.
type SMSSender interface {
	SendWithGracefulDegradation(ctx context.Context, to, body string) (*smsgateway.SendResponse, error)
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

// OutcomeRecorder counts booking outcomes for metrics.
type OutcomeRecorder interface {
	BookingCreated(flow domain.Flow)
	BookingRejected(flow domain.Flow, reason domain.RejectionReason)
}

// RealTimeProvider is the production time provider.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NopRecorder discards outcome counts. Used when metrics are disabled.
type NopRecorder struct{}

func (NopRecorder) BookingCreated(domain.Flow)                          {}
func (NopRecorder) BookingRejected(domain.Flow, domain.RejectionReason) {}
