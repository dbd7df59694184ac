package validate_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	bookingstore "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/booking"
	schedulestore "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/schedule"
	settingsstore "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/settings"
	"github.com/krish-ktm/clinic-booking-service/pkg/ptr"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// testNow is a Monday morning.
var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeLedger struct {
	rows []*domain.Booking
}

func (l *fakeLedger) GetWithFilter(_ context.Context, filter domain.LedgerFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range l.rows {
		if filter.StartDate != nil && domain.DateOnly(b.BookingDate).Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && domain.DateOnly(b.BookingDate).After(*filter.EndDate) {
			continue
		}
		if filter.SlotTime != nil && b.SlotTime != *filter.SlotTime {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (l *fakeLedger) FindOpenForRequester(_ context.Context, flow domain.Flow, requesterKey string, fromDate time.Time) (*domain.Booking, error) {
	for _, b := range l.rows {
		if b.Flow == flow && b.RequesterKey == requesterKey && b.Status == domain.StatusPending &&
			!domain.DateOnly(b.BookingDate).Before(domain.DateOnly(fromDate)) {
			return b, nil
		}
	}
	return nil, bookingstore.ErrBookingNotFound
}

type fakeScheduleRepo struct {
	days map[time.Weekday]*domain.WorkingDay
}

func (r *fakeScheduleRepo) GetWorkingDay(_ context.Context, day time.Weekday) (*domain.WorkingDay, error) {
	if d, ok := r.days[day]; ok {
		return d, nil
	}
	return nil, schedulestore.ErrDayNotFound
}

type fakeClosureRepo struct {
	dates []domain.ClosureDate
}

func (r *fakeClosureRepo) ListFromDate(_ context.Context, _ *domain.ClosureSet, fromDate time.Time) ([]domain.ClosureDate, error) {
	var out []domain.ClosureDate
	for _, d := range r.dates {
		if !domain.DateOnly(d.Date).Before(domain.DateOnly(fromDate)) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct{}

func (fakeSettingsRepo) Get(context.Context) (*domain.BookingSettings, error) {
	return nil, settingsstore.ErrSettingsNotFound
}

func newTestUseCase(ledger *fakeLedger, closures *fakeClosureRepo) *UseCase {
	schedule := &fakeScheduleRepo{days: map[time.Weekday]*domain.WorkingDay{
		time.Monday: {
			Day:       time.Monday,
			IsWorking: true,
			Slots:     []domain.Slot{{Time: "10:00 AM", MaxBookings: 2}},
		},
	}}
	return NewUseCase(ledger, schedule, closures, fakeSettingsRepo{}, nopLogger{}).
		WithTimeProvider(&fakeClock{now: testNow})
}

func request(flow domain.Flow, date time.Time, slot types.TimeString) *Request {
	return &Request{
		Flow:          flow,
		Date:          date,
		SlotTime:      slot,
		Name:          "Asha Patel",
		ContactNumber: "9876543210",
	}
}

func TestExecute_PassingDryRun(t *testing.T) {
	uc := newTestUseCase(&fakeLedger{}, &fakeClosureRepo{})

	resp, err := uc.Execute(context.Background(), request(domain.FlowPatient, testNow, "10:00 AM"))
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Empty(t, resp.Reason)
	assert.Empty(t, resp.Message)
}

func TestExecute_MalformedInputIsAnError(t *testing.T) {
	uc := newTestUseCase(&fakeLedger{}, &fakeClosureRepo{})

	_, err := uc.Execute(context.Background(), &Request{Flow: "doctor", Date: testNow, SlotTime: "10:00 AM", Name: "A", ContactNumber: "1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), request(domain.FlowPatient, testNow, "noonish"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RejectionVerdicts(t *testing.T) {
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	nextMonday := testNow.AddDate(0, 0, 7)

	fullLedger := &fakeLedger{rows: []*domain.Booking{
		{Flow: domain.FlowPatient, BookingDate: domain.DateOnly(testNow), SlotTime: "10:00 AM", Status: domain.StatusPending},
		{Flow: domain.FlowMR, BookingDate: domain.DateOnly(testNow), SlotTime: "10:00 AM", Status: domain.StatusPending},
	}}

	mrKey := domain.RequesterKey(domain.FlowMR, "Asha Patel", "9876543210")
	duplicateLedger := &fakeLedger{rows: []*domain.Booking{
		{Flow: domain.FlowMR, BookingDate: nextMonday, SlotTime: "10:00 AM",
			RequesterKey: mrKey, Status: domain.StatusPending},
	}}

	closedCalendar := &fakeClosureRepo{dates: []domain.ClosureDate{
		{Set: domain.ClosureSetFacility, Date: nextMonday, Reason: ptr.Ptr("public holiday")},
	}}

	tests := []struct {
		name       string
		ledger     *fakeLedger
		closures   *fakeClosureRepo
		req        *Request
		wantReason domain.RejectionReason
		wantInMsg  string
	}{
		{
			name: "past date", ledger: &fakeLedger{}, closures: &fakeClosureRepo{},
			req:        request(domain.FlowPatient, testNow.AddDate(0, 0, -1), "10:00 AM"),
			wantReason: domain.ReasonPastDateNotAllowed,
			wantInMsg:  "in the past",
		},
		{
			name: "weekend", ledger: &fakeLedger{}, closures: &fakeClosureRepo{},
			req:        request(domain.FlowPatient, saturday, "10:00 AM"),
			wantReason: domain.ReasonWeekendNotAllowed,
			wantInMsg:  "Weekend",
		},
		{
			name: "too far ahead", ledger: &fakeLedger{}, closures: &fakeClosureRepo{},
			req:        request(domain.FlowPatient, testNow.AddDate(0, 0, 38), "10:00 AM"),
			wantReason: domain.ReasonDateTooFarAhead,
			wantInMsg:  "30 day(s)",
		},
		{
			name: "day not working", ledger: &fakeLedger{}, closures: &fakeClosureRepo{},
			req:        request(domain.FlowPatient, testNow.AddDate(0, 0, 2), "10:00 AM"),
			wantReason: domain.ReasonDayNotWorking,
			wantInMsg:  "Wednesday",
		},
		{
			name: "closed date", ledger: &fakeLedger{}, closures: closedCalendar,
			req:        request(domain.FlowPatient, nextMonday, "10:00 AM"),
			wantReason: domain.ReasonDateClosed,
			wantInMsg:  "public holiday",
		},
		{
			name: "unknown slot", ledger: &fakeLedger{}, closures: &fakeClosureRepo{},
			req:        request(domain.FlowPatient, testNow, "11:00 AM"),
			wantReason: domain.ReasonUnknownSlot,
			wantInMsg:  "11:00 AM",
		},
		{
			name: "slot full", ledger: fullLedger, closures: &fakeClosureRepo{},
			req:        request(domain.FlowPatient, testNow, "10:00 AM"),
			wantReason: domain.ReasonSlotFull,
			wantInMsg:  "fully booked",
		},
		{
			name: "mr duplicate upcoming", ledger: duplicateLedger, closures: &fakeClosureRepo{},
			req:        request(domain.FlowMR, testNow, "10:00 AM"),
			wantReason: domain.ReasonDuplicateUpcomingBooking,
			wantInMsg:  nextMonday.Format(domain.DateFormat),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(tt.ledger, tt.closures)
			resp, err := uc.Execute(context.Background(), tt.req)
			require.NoError(t, err)
			assert.False(t, resp.OK)
			assert.Equal(t, tt.wantReason, resp.Reason)
			assert.Contains(t, resp.Message, tt.wantInMsg)
		})
	}
}

func TestExecute_DryRunWritesNothing(t *testing.T) {
	ledger := &fakeLedger{}
	uc := newTestUseCase(ledger, &fakeClosureRepo{})

	resp, err := uc.Execute(context.Background(), request(domain.FlowPatient, testNow, "10:00 AM"))
	require.NoError(t, err)
	require.True(t, resp.OK)

	// The verdict is advisory; nothing was reserved.
	assert.Empty(t, ledger.rows)
}
