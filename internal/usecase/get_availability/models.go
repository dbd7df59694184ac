package get_availability

import (
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
)

// Request asks for the remaining capacity per slot on one date, as seen by
// one flow (closure sets differ between flows).
type Request struct {
	Flow domain.Flow
	Date time.Time
}

// Response lists the date's slots in ascending clock-time order. Full slots
// are included so callers can render them as full rather than hide them. When
// the date takes no bookings at all, Open is false and Slots is empty;
// ClosedReason carries the closure reason when one is recorded.
type Response struct {
	Flow         domain.Flow
	Date         time.Time
	Open         bool
	ClosedReason *string
	Slots        []domain.SlotAvailability
}
