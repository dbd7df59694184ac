package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	bookingRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/booking"
	scheduleRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/schedule"
	settingsRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/settings"
	"github.com/krish-ktm/clinic-booking-service/pkg/ptr"
	"github.com/krish-ktm/clinic-booking-service/pkg/txmanager"
)

// UseCase creates a booking: the full validation sequence plus the final
// write, executed as one serializable read-validate-write transaction so the
// storage layer, not the pre-check, is the arbiter of capacity races.
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	closureRepo  ClosureRepository
	settingsRepo SettingsRepository
	txManager    TransactionManager
	smsSender    SMSSender
	timeProvider TimeProvider
	recorder     OutcomeRecorder
	logger       Logger
}

// NewUseCase creates the use case. smsSender may be nil when the gateway is
// disabled.
func NewUseCase(
	bookingRepository BookingRepository,
	scheduleRepository ScheduleRepository,
	closureRepository ClosureRepository,
	settingsRepository SettingsRepository,
	txManager TransactionManager,
	smsSender SMSSender,
	recorder OutcomeRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepository,
		scheduleRepo: scheduleRepository,
		closureRepo:  closureRepository,
		settingsRepo: settingsRepository,
		txManager:    txManager,
		smsSender:    smsSender,
		timeProvider: &RealTimeProvider{},
		recorder:     recorder,
		logger:       logger,
	}
}

// WithTimeProvider replaces the time source. Tests pin "now" with it.
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute runs the submission. Checks run in a fixed order and short-circuit
// on the first failure; every rejection is a distinct sentinel error so
// callers can surface a specific message.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: flow=%s, date=%s, slot=%s, contact=%s",
		req.Flow, req.Date.Format(domain.DateFormat), req.SlotTime, req.ContactNumber)

	// 1. Input validation
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	requesterKey := domain.RequesterKey(req.Flow, req.Name, req.ContactNumber)

	var result *domain.Booking

	// 2. Read-validate-write inside a serializable transaction. The same-date
	// ledger read locks the rows the capacity decision counts, and the
	// transaction retries on serialization conflicts.
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := uc.validateAndInsert(txCtx, req, now, requesterKey)
		if err != nil {
			return err
		}
		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			// Validation passed on every attempt but the write kept losing
			// the race. Distinct from the pre-check ErrSlotFull so the caller
			// refreshes availability.
			uc.logger.Warn("CreateBooking: lost capacity race after retries: flow=%s, date=%s, slot=%s",
				req.Flow, req.Date.Format(domain.DateFormat), req.SlotTime)
			uc.recorder.BookingRejected(req.Flow, domain.ReasonCapacityExceededAtWrite)
			return nil, ErrCapacityExceededAtWrite
		}
		if reason, ok := rejectionReason(err); ok {
			uc.logger.Info("CreateBooking: rejected: reason=%s: %v", reason, err)
			uc.recorder.BookingRejected(req.Flow, reason)
		} else {
			uc.logger.Error("CreateBooking: failed: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)
	uc.recorder.BookingCreated(req.Flow)

	uc.sendConfirmation(ctx, result)

	return &Response{
		ID:            result.ID,
		Flow:          result.Flow,
		Date:          result.BookingDate,
		SlotTime:      result.SlotTime,
		Name:          result.Name,
		ContactNumber: result.ContactNumber,
		Status:        result.Status,
		Notes:         result.Notes,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

// validateAndInsert runs checks 2-6 and the insert on the transaction context.
func (uc *UseCase) validateAndInsert(ctx context.Context, req *Request, now time.Time, requesterKey string) (*domain.Booking, error) {
	// 2. Date rules (past date for MRs; past/weekend/window for patients)
	settings, err := uc.loadSettings(ctx, req.Flow)
	if err != nil {
		return nil, err
	}
	if err := checkDateRules(req.Flow, req.Date, now, settings); err != nil {
		return nil, err
	}

	// 3. Working day and slot resolution
	day, err := uc.scheduleRepo.GetWorkingDay(ctx, req.Date.Weekday())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrDayNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDayNotWorking, req.Date.Weekday())
		}
		return nil, fmt.Errorf("%w: read working day: %v", ErrStorageUnavailable, err)
	}
	if !day.IsBookable() {
		return nil, fmt.Errorf("%w: %s", ErrDayNotWorking, req.Date.Weekday())
	}

	// 4. Closure calendars (facility closes both flows, provider only MRs)
	closures, err := uc.closureRepo.ListFromDate(ctx, nil, domain.DateOnly(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: read closures: %v", ErrStorageUnavailable, err)
	}
	if entry, closed := domain.NewClosureCalendar(closures).Closed(req.Date, req.Flow); closed {
		if entry.Reason != nil {
			return nil, fmt.Errorf("%w: %s", ErrDateClosed, *entry.Reason)
		}
		return nil, ErrDateClosed
	}

	slot := day.FindSlot(req.SlotTime)
	if slot == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, req.SlotTime)
	}

	// 5. Capacity: count pending bookings for this date and slot across both
	// flows. The read runs FOR UPDATE inside the transaction.
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
		return nil, fmt.Errorf("%w: %q has %d/%d booked", ErrSlotFull, req.SlotTime, occupied, slot.MaxBookings)
	}

	// 6. One upcoming appointment per MR
	if req.Flow == domain.FlowMR {
		existing, err := uc.bookingRepo.FindOpenForRequester(ctx, req.Flow, requesterKey, now)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: read requester bookings: %v", ErrStorageUnavailable, err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: on %s", ErrDuplicateUpcomingBooking,
				existing.BookingDate.Format(domain.DateFormat))
		}
	}

	// 7. Insert. The partial unique index remains the final arbiter of the
	// duplicate rule even if the pre-check raced.
	created, err := uc.bookingRepo.Create(ctx, &domain.Booking{
		Flow:          req.Flow,
		BookingDate:   date,
		SlotTime:      req.SlotTime,
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		RequesterKey:  requesterKey,
		Status:        domain.StatusPending,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicateRequester) {
			return nil, ErrDuplicateUpcomingBooking
		}
		return nil, fmt.Errorf("%w: insert booking: %v", ErrStorageUnavailable, err)
	}

	return created, nil
}

// loadSettings fetches the patient-flow restrictions. MRs carry no
// configurable restrictions, so the read is skipped for them. A missing
// singleton row falls back to the defaults.
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

// sendConfirmation delivers the confirmation SMS best-effort: the booking is
// already committed, so delivery failures are logged and swallowed.
func (uc *UseCase) sendConfirmation(ctx context.Context, booking *domain.Booking) {
	if uc.smsSender == nil {
		return
	}
	_, err := uc.smsSender.SendWithGracefulDegradation(ctx, booking.ContactNumber, buildConfirmationSMS(booking))
	if err != nil {
		uc.logger.Warn("CreateBooking: confirmation SMS not delivered for booking id=%d: %v", booking.ID, err)
	}
}

// rejectionReason maps a rule rejection to its stable reason kind. Storage and
// internal failures carry no reason.
func rejectionReason(err error) (domain.RejectionReason, bool) {
	switch {
	case errors.Is(err, ErrPastDateNotAllowed):
		return domain.ReasonPastDateNotAllowed, true
	case errors.Is(err, ErrWeekendNotAllowed):
		return domain.ReasonWeekendNotAllowed, true
	case errors.Is(err, ErrDateTooSoon):
		return domain.ReasonDateTooSoon, true
	case errors.Is(err, ErrDateTooFarAhead):
		return domain.ReasonDateTooFarAhead, true
	case errors.Is(err, ErrDayNotWorking):
		return domain.ReasonDayNotWorking, true
	case errors.Is(err, ErrDateClosed):
		return domain.ReasonDateClosed, true
	case errors.Is(err, ErrUnknownSlot):
		return domain.ReasonUnknownSlot, true
	case errors.Is(err, ErrSlotFull):
		return domain.ReasonSlotFull, true
	case errors.Is(err, ErrDuplicateUpcomingBooking):
		return domain.ReasonDuplicateUpcomingBooking, true
	case errors.Is(err, ErrCapacityExceededAtWrite):
		return domain.ReasonCapacityExceededAtWrite, true
	}
	return "", false
}
