package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	scheduleRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/schedule"
	"github.com/krish-ktm/clinic-booking-service/pkg/ptr"
)

// UseCase reads the remaining capacity per slot for one date. Pure read: two
// plain queries plus an in-memory computation, no transaction.
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	closureRepo  ClosureRepository
	logger       Logger
}

func NewUseCase(
	bookingRepository BookingRepository,
	scheduleRepository ScheduleRepository,
	closureRepository ClosureRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepository,
		scheduleRepo: scheduleRepository,
		closureRepo:  closureRepository,
		logger:       logger,
	}
}

// Execute computes the date's slot availability for the given flow.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if !req.Flow.IsValid() {
		return nil, fmt.Errorf("%w: unknown flow %q", ErrInvalidInput, req.Flow)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date := domain.DateOnly(req.Date)

	closed := func(reason *string) *Response {
		return &Response{
			Flow:         req.Flow,
			Date:         date,
			Open:         false,
			ClosedReason: reason,
			Slots:        []domain.SlotAvailability{},
		}
	}

	day, err := uc.scheduleRepo.GetWorkingDay(ctx, date.Weekday())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrDayNotFound) {
			return closed(nil), nil
		}
		return nil, fmt.Errorf("%w: read working day: %v", ErrStorageUnavailable, err)
	}
	if !day.IsBookable() {
		return closed(nil), nil
	}

	closures, err := uc.closureRepo.ListFromDate(ctx, nil, date)
	if err != nil {
		return nil, fmt.Errorf("%w: read closures: %v", ErrStorageUnavailable, err)
	}
	if entry, isClosed := domain.NewClosureCalendar(closures).Closed(date, req.Flow); isClosed {
		return closed(entry.Reason), nil
	}

	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.LedgerFilter{
		StartDate: &date,
		EndDate:   &date,
		Status:    ptr.Ptr(domain.StatusPending),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: read ledger: %v", ErrStorageUnavailable, err)
	}

	return &Response{
		Flow:  req.Flow,
		Date:  date,
		Open:  true,
		Slots: domain.ComputeAvailability(day, bookings),
	}, nil
}
