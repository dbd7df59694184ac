package bookings

import (
	"context"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
)

// BookingRepository is the ledger surface the service needs.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Booking, error)
	GetByRequesterKey(ctx context.Context, requesterKey string, status *domain.BookingStatus) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// Logger is the logging surface the service needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
