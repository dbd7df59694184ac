package validate_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	bookingRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/booking"
	scheduleRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/schedule"
	settingsRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/settings"
	"github.com/krish-ktm/clinic-booking-service/pkg/ptr"
)

// UseCase dry-runs the booking checks without writing anything. The verdict is
// advisory: a passing dry run can still lose the capacity race at submission,
// which re-runs the same sequence inside a serializable transaction.
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	closureRepo  ClosureRepository
	settingsRepo SettingsRepository
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	bookingRepository BookingRepository,
	scheduleRepository ScheduleRepository,
	closureRepository ClosureRepository,
	settingsRepository SettingsRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepository,
		scheduleRepo: scheduleRepository,
		closureRepo:  closureRepository,
		settingsRepo: settingsRepository,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider replaces the time source. Tests pin "now" with it.
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute runs the check sequence in submission order and returns the first
// failure as a verdict. Malformed input is an error, not a verdict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// Date rules
	settings, err := uc.loadSettings(ctx, req.Flow)
	if err != nil {
		return nil, err
	}
	if resp := checkDateRules(req.Flow, req.Date, now, settings); resp != nil {
		return resp, nil
	}

	// Working day
	day, err := uc.scheduleRepo.GetWorkingDay(ctx, req.Date.Weekday())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrDayNotFound) {
			return rejected(domain.ReasonDayNotWorking,
				fmt.Sprintf("The clinic does not take bookings on %s.", req.Date.Weekday())), nil
		}
		return nil, fmt.Errorf("%w: read working day: %v", ErrStorageUnavailable, err)
	}
	if !day.IsBookable() {
		return rejected(domain.ReasonDayNotWorking,
			fmt.Sprintf("The clinic does not take bookings on %s.", req.Date.Weekday())), nil
	}

	// Closure calendars
	closures, err := uc.closureRepo.ListFromDate(ctx, nil, domain.DateOnly(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: read closures: %v", ErrStorageUnavailable, err)
	}
	if entry, closed := domain.NewClosureCalendar(closures).Closed(req.Date, req.Flow); closed {
		message := "The clinic is closed on this date."
		if entry.Reason != nil {
			message = fmt.Sprintf("The clinic is closed on this date: %s.", *entry.Reason)
		}
		return rejected(domain.ReasonDateClosed, message), nil
	}

	// Slot resolution and capacity
	slot := day.FindSlot(req.SlotTime)
	if slot == nil {
		return rejected(domain.ReasonUnknownSlot,
			fmt.Sprintf("No %q slot exists on %s.", req.SlotTime, req.Date.Weekday())), nil
	}

	date := domain.DateOnly(req.Date)
	sameSlot, err := uc.bookingRepo.GetWithFilter(ctx, domain.LedgerFilter{
		StartDate: &date,
		EndDate:   &date,
		SlotTime:  ptr.Ptr(req.SlotTime),
		Status:    ptr.Ptr(domain.StatusPending),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: read slot ledger: %v", ErrStorageUnavailable, err)
	}
	occupied := 0
	for _, b := range sameSlot {
		if b.CountsTowardCapacity() {
			occupied++
		}
	}
	if occupied >= slot.MaxBookings {
		return rejected(domain.ReasonSlotFull,
			fmt.Sprintf("The %s slot is fully booked.", req.SlotTime)), nil
	}

	// One upcoming appointment per MR
	if req.Flow == domain.FlowMR {
		requesterKey := domain.RequesterKey(req.Flow, req.Name, req.ContactNumber)
		existing, err := uc.bookingRepo.FindOpenForRequester(ctx, req.Flow, requesterKey, now)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: read requester bookings: %v", ErrStorageUnavailable, err)
		}
		if existing != nil {
			return rejected(domain.ReasonDuplicateUpcomingBooking,
				fmt.Sprintf("You already have an upcoming appointment on %s.",
					existing.BookingDate.Format(domain.DateFormat))), nil
		}
	}

	return &Response{OK: true}, nil
}

func (uc *UseCase) loadSettings(ctx context.Context, flow domain.Flow) (*domain.BookingSettings, error) {
	if flow != domain.FlowPatient {
		return nil, nil
	}
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return domain.DefaultBookingSettings(), nil
		}
		return nil, fmt.Errorf("%w: read booking settings: %v", ErrStorageUnavailable, err)
	}
	return settings, nil
}

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
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ContactNumber) == "" {
		return fmt.Errorf("%w: contactNumber is required", ErrInvalidInput)
	}
	return nil
}

// checkDateRules returns a rejection verdict for the date-level rules, or nil
// when the date passes.
func checkDateRules(flow domain.Flow, date, now time.Time, settings *domain.BookingSettings) *Response {
	if flow == domain.FlowMR {
		if domain.IsDateInPast(date, now) {
			return rejected(domain.ReasonPastDateNotAllowed, "The booking date is in the past.")
		}
		return nil
	}

	restrictions := settings.Restrictions

	if domain.IsDateInPast(date, now) && !restrictions.AllowPastDates {
		return rejected(domain.ReasonPastDateNotAllowed, "The booking date is in the past.")
	}
	if domain.IsWeekend(date) && !restrictions.AllowWeekends {
		return rejected(domain.ReasonWeekendNotAllowed, "Weekend bookings are not allowed.")
	}

	daysAhead := int(domain.DateOnly(date).Sub(domain.DateOnly(now)).Hours() / 24)
	if daysAhead >= 0 {
		if daysAhead < restrictions.MinDaysAhead {
			return rejected(domain.ReasonDateTooSoon,
				fmt.Sprintf("Bookings must be made at least %d day(s) ahead.", restrictions.MinDaysAhead))
		}
		if daysAhead > restrictions.MaxDaysAhead {
			return rejected(domain.ReasonDateTooFarAhead,
				fmt.Sprintf("Bookings can be made at most %d day(s) ahead.", restrictions.MaxDaysAhead))
		}
	}

	return nil
}
