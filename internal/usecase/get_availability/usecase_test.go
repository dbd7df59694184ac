package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	schedulestore "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/schedule"
	"github.com/krish-ktm/clinic-booking-service/pkg/ptr"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// monday is the date all fixtures are built around.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

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
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
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

func newTestUseCase(ledger *fakeLedger, closures *fakeClosureRepo) *UseCase {
	schedule := &fakeScheduleRepo{days: map[time.Weekday]*domain.WorkingDay{
		time.Monday: {
			Day:       time.Monday,
			IsWorking: true,
			Slots: []domain.Slot{
				{Time: "2:00 PM", MaxBookings: 2},
				{Time: "10:00 AM", MaxBookings: 1},
			},
		},
		time.Tuesday: {Day: time.Tuesday, IsWorking: true},
	}}
	return NewUseCase(ledger, schedule, closures, nopLogger{})
}

func TestExecute_OpenDay(t *testing.T) {
	ledger := &fakeLedger{rows: []*domain.Booking{
		{Flow: domain.FlowPatient, BookingDate: monday, SlotTime: "10:00 AM", Status: domain.StatusPending},
		{Flow: domain.FlowMR, BookingDate: monday, SlotTime: "2:00 PM", Status: domain.StatusPending},
		{Flow: domain.FlowPatient, BookingDate: monday, SlotTime: "2:00 PM", Status: domain.StatusCancelled},
	}}
	uc := newTestUseCase(ledger, &fakeClosureRepo{})

	resp, err := uc.Execute(context.Background(), &Request{Flow: domain.FlowPatient, Date: monday})
	require.NoError(t, err)

	assert.True(t, resp.Open)
	assert.Nil(t, resp.ClosedReason)
	require.Len(t, resp.Slots, 2)

	// Clock order, not configured order.
	assert.Equal(t, types.TimeString("10:00 AM"), resp.Slots[0].Time)
	assert.Equal(t, 0, resp.Slots[0].Remaining)
	assert.True(t, resp.Slots[0].IsFull())

	// Pending bookings from both flows count; cancelled ones do not.
	assert.Equal(t, types.TimeString("2:00 PM"), resp.Slots[1].Time)
	assert.Equal(t, 1, resp.Slots[1].CurrentBookings)
	assert.Equal(t, 1, resp.Slots[1].Remaining)
}

func TestExecute_TimeOfDayIgnored(t *testing.T) {
	uc := newTestUseCase(&fakeLedger{}, &fakeClosureRepo{})

	resp, err := uc.Execute(context.Background(),
		&Request{Flow: domain.FlowPatient, Date: monday.Add(17 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, monday, resp.Date)
	assert.True(t, resp.Open)
}

func TestExecute_NonBookableDay(t *testing.T) {
	uc := newTestUseCase(&fakeLedger{}, &fakeClosureRepo{})

	t.Run("no schedule row", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(),
			&Request{Flow: domain.FlowPatient, Date: monday.AddDate(0, 0, 2)})
		require.NoError(t, err)
		assert.False(t, resp.Open)
		assert.Nil(t, resp.ClosedReason)
		assert.Empty(t, resp.Slots)
	})

	t.Run("working day without slots", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(),
			&Request{Flow: domain.FlowPatient, Date: monday.AddDate(0, 0, 1)})
		require.NoError(t, err)
		assert.False(t, resp.Open)
		assert.Empty(t, resp.Slots)
	})
}

func TestExecute_ClosedDate(t *testing.T) {
	closures := &fakeClosureRepo{dates: []domain.ClosureDate{
		{Set: domain.ClosureSetProvider, Date: monday, Reason: ptr.Ptr("conference")},
	}}
	uc := newTestUseCase(&fakeLedger{}, closures)

	t.Run("provider closure hides the date from MRs", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), &Request{Flow: domain.FlowMR, Date: monday})
		require.NoError(t, err)
		assert.False(t, resp.Open)
		require.NotNil(t, resp.ClosedReason)
		assert.Equal(t, "conference", *resp.ClosedReason)
		assert.Empty(t, resp.Slots)
	})

	t.Run("patients still see the date open", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), &Request{Flow: domain.FlowPatient, Date: monday})
		require.NoError(t, err)
		assert.True(t, resp.Open)
	})
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeLedger{}, &fakeClosureRepo{})

	_, err := uc.Execute(context.Background(), &Request{Flow: "doctor", Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Flow: domain.FlowPatient})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
