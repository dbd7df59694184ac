package create_booking

import (
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// Request is the proposed booking.
type Request struct {
	Flow          domain.Flow
	Date          time.Time        // booking date (time of day ignored)
	SlotTime      types.TimeString // slot label, e.g. "10:30 AM"
	Name          string
	ContactNumber string
	Notes         *string
}

// Response is the confirmed booking.
type Response struct {
	ID            int64
	Flow          domain.Flow
	Date          time.Time
	SlotTime      types.TimeString
	Name          string
	ContactNumber string
	Status        domain.BookingStatus
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
