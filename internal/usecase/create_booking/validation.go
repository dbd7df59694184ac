package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
)

// validateRequest checks the input shape before any storage read.
func validateRequest(req *Request) error {
	if !req.Flow.IsValid() {
		return fmt.Errorf("%w: unknown flow %q", ErrInvalidInput, req.Flow)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.SlotTime.IsZero() {
		return fmt.Errorf("%w: slotTime is required", ErrInvalidInput)
	}
	if err := req.SlotTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slotTime format: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	contact := strings.TrimSpace(req.ContactNumber)
	if contact == "" {
		return fmt.Errorf("%w: contactNumber is required", ErrInvalidInput)
	}
	if len(contact) > domain.MaxContactNumberLength {
		return fmt.Errorf("%w: contactNumber exceeds %d characters", ErrInvalidInput, domain.MaxContactNumberLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// checkDateRules runs the date-level checks of the validation sequence:
// past-date, weekend and the min/max days-ahead window. Settings are only
// consulted for the patient flow; MR bookings never accept past dates and
// carry no weekend or window restrictions of their own.
func checkDateRules(flow domain.Flow, date, now time.Time, settings *domain.BookingSettings) error {
	if flow == domain.FlowMR {
		if domain.IsDateInPast(date, now) {
			return ErrPastDateNotAllowed
		}
		return nil
	}

	restrictions := settings.Restrictions

	if domain.IsDateInPast(date, now) && !restrictions.AllowPastDates {
		return ErrPastDateNotAllowed
	}

	if domain.IsWeekend(date) && !restrictions.AllowWeekends {
		return ErrWeekendNotAllowed
	}

	daysAhead := int(domain.DateOnly(date).Sub(domain.DateOnly(now)).Hours() / 24)
	if daysAhead >= 0 {
		if daysAhead < restrictions.MinDaysAhead {
			return fmt.Errorf("%w: must book at least %d day(s) ahead", ErrDateTooSoon, restrictions.MinDaysAhead)
		}
		if daysAhead > restrictions.MaxDaysAhead {
			return fmt.Errorf("%w: can only book %d day(s) ahead", ErrDateTooFarAhead, restrictions.MaxDaysAhead)
		}
	}

	return nil
}

// buildConfirmationSMS renders the confirmation text for a created booking.
func buildConfirmationSMS(booking *domain.Booking) string {
	return fmt.Sprintf("Your appointment is confirmed for %s at %s. Reference #%d.",
		booking.BookingDate.Format(domain.DateFormat), booking.SlotTime, booking.ID)
}
