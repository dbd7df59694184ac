package create_booking

import "errors"

var (
	// ErrInvalidInput is returned on malformed input data.
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrPastDateNotAllowed is returned when the date is in the past and the
	// flow forbids past dates.
	ErrPastDateNotAllowed = errors.New("create_booking: booking date is in the past")

	// ErrWeekendNotAllowed is returned when the date falls on a weekend and
	// weekend bookings are disabled (patient flow).
	ErrWeekendNotAllowed = errors.New("create_booking: weekend bookings are not allowed")

	// ErrDateTooSoon is returned when the date violates minDaysAhead.
	ErrDateTooSoon = errors.New("create_booking: date is too soon")

	// ErrDateTooFarAhead is returned when the date violates maxDaysAhead.
	ErrDateTooFarAhead = errors.New("create_booking: date is too far ahead")

	// ErrDayNotWorking is returned when the weekday accepts no bookings,
	// including a working day with no slots configured.
	ErrDayNotWorking = errors.New("create_booking: clinic does not take bookings on this day")

	// ErrDateClosed is returned when the date is in an applicable closure set.
	// Wrapped with the closure reason when one is present.
	ErrDateClosed = errors.New("create_booking: clinic is closed on this date")

	// ErrUnknownSlot is returned when the slot label does not match any
	// configured slot for that weekday.
	ErrUnknownSlot = errors.New("create_booking: unknown time slot")

	// ErrSlotFull is returned when the targeted slot has no remaining
	// capacity at validation time.
	ErrSlotFull = errors.New("create_booking: slot is fully booked")

	// ErrDuplicateUpcomingBooking is returned when the requester already has
	// an upcoming appointment (MR rule: one at a time).
	ErrDuplicateUpcomingBooking = errors.New("create_booking: an upcoming appointment already exists")

	// ErrCapacityExceededAtWrite is returned when the final atomic write lost
	// the race after validation passed. Callers should refresh availability.
	ErrCapacityExceededAtWrite = errors.New("create_booking: capacity exceeded at write")

	// ErrStorageUnavailable is returned on transient storage failures; the
	// whole submission may be retried.
	ErrStorageUnavailable = errors.New("create_booking: storage unavailable")

	// ErrInternal is returned on internal use case errors.
	ErrInternal = errors.New("create_booking: internal error")
)
