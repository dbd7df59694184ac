package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// Flow identifies which booking flow a request belongs to. The two flows share
// the slot schedule but differ in closure sets and validation rules.
type Flow string

const (
	FlowMR      Flow = "mr"
	FlowPatient Flow = "patient"
)

// IsValid reports whether the flow is one of the known flows.
func (f Flow) IsValid() bool {
	return f == FlowMR || f == FlowPatient
}

// BookingStatus represents the status of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// IsValid reports whether the status is one of the known statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Booking represents a confirmed reservation in the ledger.
type Booking struct {
	ID            int64
	Flow          Flow
	BookingDate   time.Time
	SlotTime      types.TimeString // slot label, canonical key into the day's schedule
	Name          string
	ContactNumber string
	RequesterKey  string
	Status        BookingStatus
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsTowardCapacity reports whether the booking occupies a slot spot.
// Only pending bookings do; cancelled, completed and no-show rows free the spot.
func (b *Booking) CountsTowardCapacity() bool {
	return b.Status == StatusPending
}

// CanBeCancelled reports whether the booking can still be cancelled.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending
}

// IsUpcoming reports whether the booking is pending with a date on or after
// the given day. Used by the one-upcoming-appointment rule for MRs.
func (b *Booking) IsUpcoming(today time.Time) bool {
	if b.Status != StatusPending {
		return false
	}
	return !DateOnly(b.BookingDate).Before(DateOnly(today))
}

// RequesterKey builds the identity used for duplicate detection.
// MRs are keyed by normalized name plus contact number; patients by contact
// number alone.
func RequesterKey(flow Flow, name, contactNumber string) string {
	contact := strings.TrimSpace(contactNumber)
	if flow == FlowPatient {
		return contact
	}
	normalized := strings.ToLower(strings.Join(strings.Fields(name), " "))
	return fmt.Sprintf("%s|%s", normalized, contact)
}

// LedgerFilter describes a filtered read over the booking ledger.
type LedgerFilter struct {
	Flow            *Flow      // nil = both flows
	StartDate       *time.Time // start of the period, inclusive
	EndDate         *time.Time // end of the period, inclusive
	SlotTime        *types.TimeString
	Status          *BookingStatus
	IncludeInactive bool // include cancelled / completed / no-show rows
}
