package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/internal/integrations/smsgateway"
	bookingstore "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/booking"
	schedulestore "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/schedule"
	settingsstore "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/settings"
	"github.com/krish-ktm/clinic-booking-service/pkg/ptr"
	"github.com/krish-ktm/clinic-booking-service/pkg/txmanager"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// testNow is a Monday morning; the schedule fixtures are built around it.
var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeTxManager serializes callbacks with a mutex, mimicking the mutual
// exclusion the serializable transaction provides for same-date submissions.
type fakeTxManager struct {
	mu  sync.Mutex
	err error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeLedger struct {
	mu     sync.Mutex
	nextID int64
	rows   []*domain.Booking
	getErr error
}

func (l *fakeLedger) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	stored := *booking
	stored.ID = l.nextID
	stored.CreatedAt = testNow
	stored.UpdatedAt = testNow
	l.rows = append(l.rows, &stored)
	result := stored
	return &result, nil
}

func (l *fakeLedger) GetWithFilter(_ context.Context, filter domain.LedgerFilter) ([]*domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.getErr != nil {
		return nil, l.getErr
	}
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
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.rows {
		if b.Flow == flow && b.RequesterKey == requesterKey && b.Status == domain.StatusPending &&
			!domain.DateOnly(b.BookingDate).Before(domain.DateOnly(fromDate)) {
			return b, nil
		}
	}
	return nil, bookingstore.ErrBookingNotFound
}

func (l *fakeLedger) pendingCount(date time.Time, slot types.TimeString) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for _, b := range l.rows {
		if domain.IsSameDay(b.BookingDate, date) && b.SlotTime == slot && b.Status == domain.StatusPending {
			count++
		}
	}
	return count
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

func (r *fakeClosureRepo) ListFromDate(_ context.Context, set *domain.ClosureSet, fromDate time.Time) ([]domain.ClosureDate, error) {
	var out []domain.ClosureDate
	for _, d := range r.dates {
		if set != nil && d.Set != *set {
			continue
		}
		if domain.DateOnly(d.Date).Before(domain.DateOnly(fromDate)) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

type fakeSettingsRepo struct {
	settings *domain.BookingSettings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*domain.BookingSettings, error) {
	if r.settings == nil {
		return nil, settingsstore.ErrSettingsNotFound
	}
	return r.settings, nil
}

type captureRecorder struct {
	mu       sync.Mutex
	created  []domain.Flow
	rejected []domain.RejectionReason
}

func (r *captureRecorder) BookingCreated(flow domain.Flow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, flow)
}

func (r *captureRecorder) BookingRejected(_ domain.Flow, reason domain.RejectionReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, reason)
}

type fakeSMS struct {
	mu    sync.Mutex
	sent  []string
	err   error
	calls int
}

func (s *fakeSMS) SendWithGracefulDegradation(_ context.Context, to, _ string) (*smsgateway.SendResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, to)
	return &smsgateway.SendResponse{Status: "delivered"}, nil
}

type fixture struct {
	ledger   *fakeLedger
	schedule *fakeScheduleRepo
	closures *fakeClosureRepo
	settings *fakeSettingsRepo
	tx       *fakeTxManager
	sms      *fakeSMS
	recorder *captureRecorder
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		ledger: &fakeLedger{},
		schedule: &fakeScheduleRepo{days: map[time.Weekday]*domain.WorkingDay{
			time.Monday: {
				Day:       time.Monday,
				IsWorking: true,
				Slots: []domain.Slot{
					{Time: "9:00 AM", MaxBookings: 2},
					{Time: "10:00 AM", MaxBookings: 3},
				},
			},
			// Working but with nothing to book.
			time.Tuesday: {Day: time.Tuesday, IsWorking: true},
		}},
		closures: &fakeClosureRepo{},
		settings: &fakeSettingsRepo{},
		tx:       &fakeTxManager{},
		sms:      &fakeSMS{},
		recorder: &captureRecorder{},
	}
	f.uc = NewUseCase(f.ledger, f.schedule, f.closures, f.settings, f.tx, f.sms, f.recorder, nopLogger{}).
		WithTimeProvider(&fakeClock{now: testNow})
	return f
}

func patientRequest(date time.Time, slot types.TimeString, contact string) *Request {
	return &Request{
		Flow:          domain.FlowPatient,
		Date:          date,
		SlotTime:      slot,
		Name:          "Asha Patel",
		ContactNumber: contact,
	}
}

func mrRequest(date time.Time, slot types.TimeString, name, contact string) *Request {
	return &Request{
		Flow:          domain.FlowMR,
		Date:          date,
		SlotTime:      slot,
		Name:          name,
		ContactNumber: contact,
	}
}

func TestExecute_CreatesBooking(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "9876543210"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, domain.FlowPatient, resp.Flow)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, types.TimeString("10:00 AM"), resp.SlotTime)
	assert.Equal(t, domain.DateOnly(testNow), resp.Date)

	assert.Equal(t, []domain.Flow{domain.FlowPatient}, f.recorder.created)
	assert.Equal(t, []string{"9876543210"}, f.sms.sent)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name string
		req  *Request
	}{
		{"unknown flow", &Request{Flow: "doctor", Date: testNow, SlotTime: "10:00 AM", Name: "A", ContactNumber: "1"}},
		{"zero date", &Request{Flow: domain.FlowPatient, SlotTime: "10:00 AM", Name: "A", ContactNumber: "1"}},
		{"missing slot", &Request{Flow: domain.FlowPatient, Date: testNow, Name: "A", ContactNumber: "1"}},
		{"unparseable slot", &Request{Flow: domain.FlowPatient, Date: testNow, SlotTime: "noonish", Name: "A", ContactNumber: "1"}},
		{"blank name", &Request{Flow: domain.FlowPatient, Date: testNow, SlotTime: "10:00 AM", Name: "   ", ContactNumber: "1"}},
		{"blank contact", &Request{Flow: domain.FlowPatient, Date: testNow, SlotTime: "10:00 AM", Name: "A", ContactNumber: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	assert.Empty(t, f.ledger.rows)
}

func TestExecute_DateRules(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	farAhead := testNow.AddDate(0, 0, 38) // a Thursday, 38 > default 30-day window

	t.Run("mr past date", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), mrRequest(yesterday, "10:00 AM", "Raj", "111"))
		assert.ErrorIs(t, err, ErrPastDateNotAllowed)
		assert.Contains(t, f.recorder.rejected, domain.ReasonPastDateNotAllowed)
	})

	t.Run("patient past date", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), patientRequest(yesterday, "10:00 AM", "111"))
		assert.ErrorIs(t, err, ErrPastDateNotAllowed)
	})

	t.Run("patient weekend", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), patientRequest(saturday, "10:00 AM", "111"))
		assert.ErrorIs(t, err, ErrWeekendNotAllowed)
	})

	t.Run("patient weekend allowed by settings", func(t *testing.T) {
		f := newFixture()
		settings := domain.DefaultBookingSettings()
		settings.Restrictions.AllowWeekends = true
		f.settings.settings = settings
		// Saturday has no schedule, so the request falls through to the
		// working-day check instead of the weekend rule.
		_, err := f.uc.Execute(context.Background(), patientRequest(saturday, "10:00 AM", "111"))
		assert.ErrorIs(t, err, ErrDayNotWorking)
	})

	t.Run("patient too far ahead", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), patientRequest(farAhead, "10:00 AM", "111"))
		assert.ErrorIs(t, err, ErrDateTooFarAhead)
	})

	t.Run("patient too soon", func(t *testing.T) {
		f := newFixture()
		settings := domain.DefaultBookingSettings()
		settings.Restrictions.MinDaysAhead = 2
		f.settings.settings = settings
		tomorrow := testNow.AddDate(0, 0, 1)
		_, err := f.uc.Execute(context.Background(), patientRequest(tomorrow, "10:00 AM", "111"))
		assert.ErrorIs(t, err, ErrDateTooSoon)
	})

	t.Run("mr has no window restriction", func(t *testing.T) {
		f := newFixture()
		farMonday := testNow.AddDate(0, 0, 42)
		resp, err := f.uc.Execute(context.Background(), mrRequest(farMonday, "10:00 AM", "Raj", "111"))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, resp.Status)
	})
}

func TestExecute_DayNotWorking(t *testing.T) {
	f := newFixture()

	t.Run("no schedule row", func(t *testing.T) {
		wednesday := testNow.AddDate(0, 0, 2)
		_, err := f.uc.Execute(context.Background(), patientRequest(wednesday, "10:00 AM", "111"))
		assert.ErrorIs(t, err, ErrDayNotWorking)
	})

	t.Run("working day with no slots", func(t *testing.T) {
		tuesday := testNow.AddDate(0, 0, 1)
		_, err := f.uc.Execute(context.Background(), patientRequest(tuesday, "10:00 AM", "111"))
		assert.ErrorIs(t, err, ErrDayNotWorking)
	})
}

func TestExecute_Closures(t *testing.T) {
	nextMonday := testNow.AddDate(0, 0, 7)

	t.Run("facility closure blocks both flows", func(t *testing.T) {
		f := newFixture()
		f.closures.dates = []domain.ClosureDate{
			{Set: domain.ClosureSetFacility, Date: nextMonday, Reason: ptr.Ptr("public holiday")},
		}

		_, err := f.uc.Execute(context.Background(), patientRequest(nextMonday, "10:00 AM", "111"))
		require.ErrorIs(t, err, ErrDateClosed)
		assert.Contains(t, err.Error(), "public holiday")

		_, err = f.uc.Execute(context.Background(), mrRequest(nextMonday, "10:00 AM", "Raj", "222"))
		assert.ErrorIs(t, err, ErrDateClosed)
	})

	t.Run("provider closure blocks MRs only", func(t *testing.T) {
		f := newFixture()
		f.closures.dates = []domain.ClosureDate{
			{Set: domain.ClosureSetProvider, Date: nextMonday},
		}

		_, err := f.uc.Execute(context.Background(), mrRequest(nextMonday, "10:00 AM", "Raj", "222"))
		assert.ErrorIs(t, err, ErrDateClosed)

		_, err = f.uc.Execute(context.Background(), patientRequest(nextMonday, "10:00 AM", "111"))
		assert.NoError(t, err)
	})
}

func TestExecute_UnknownSlot(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), patientRequest(testNow, "1:00 PM", "111"))
	assert.ErrorIs(t, err, ErrUnknownSlot)

	// Label match is exact: same clock time spelled differently is unknown.
	_, err = f.uc.Execute(context.Background(), patientRequest(testNow, "09:00 AM", "111"))
	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestExecute_SlotFull(t *testing.T) {
	f := newFixture()

	for i := 0; i < 3; i++ {
		_, err := f.uc.Execute(context.Background(),
			patientRequest(testNow, "10:00 AM", fmt.Sprintf("contact-%d", i)))
		require.NoError(t, err)
	}

	_, err := f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "late"))
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.Contains(t, f.recorder.rejected, domain.ReasonSlotFull)

	// The other slot on the same day stays open.
	_, err = f.uc.Execute(context.Background(), patientRequest(testNow, "9:00 AM", "late"))
	assert.NoError(t, err)
}

func TestExecute_CancelledBookingsFreeCapacity(t *testing.T) {
	f := newFixture()
	date := domain.DateOnly(testNow)
	for i := 0; i < 3; i++ {
		f.ledger.rows = append(f.ledger.rows, &domain.Booking{
			ID: int64(100 + i), Flow: domain.FlowPatient, BookingDate: date,
			SlotTime: "10:00 AM", Status: domain.StatusCancelled,
		})
	}

	_, err := f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "111"))
	assert.NoError(t, err)
}

func TestExecute_CapacitySharedAcrossFlows(t *testing.T) {
	f := newFixture()

	// Two MRs and one patient fill the three-spot slot together.
	_, err := f.uc.Execute(context.Background(), mrRequest(testNow, "10:00 AM", "Raj", "111"))
	require.NoError(t, err)
	_, err = f.uc.Execute(context.Background(), mrRequest(testNow, "10:00 AM", "Meera", "222"))
	require.NoError(t, err)
	_, err = f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "333"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "444"))
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestExecute_MRDuplicateUpcoming(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), mrRequest(testNow, "10:00 AM", "Raj Shah", "111"))
	require.NoError(t, err)

	t.Run("same requester rejected", func(t *testing.T) {
		nextMonday := testNow.AddDate(0, 0, 7)
		_, err := f.uc.Execute(context.Background(), mrRequest(nextMonday, "9:00 AM", "Raj Shah", "111"))
		assert.ErrorIs(t, err, ErrDuplicateUpcomingBooking)
	})

	t.Run("name normalization catches respelling", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), mrRequest(testNow, "9:00 AM", "  raj   SHAH ", "111"))
		assert.ErrorIs(t, err, ErrDuplicateUpcomingBooking)
	})

	t.Run("different contact is a different requester", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), mrRequest(testNow, "10:00 AM", "Raj Shah", "999"))
		assert.NoError(t, err)
	})

	t.Run("cancelled booking no longer blocks", func(t *testing.T) {
		f := newFixture()
		resp, err := f.uc.Execute(context.Background(), mrRequest(testNow, "10:00 AM", "Raj Shah", "111"))
		require.NoError(t, err)

		f.ledger.mu.Lock()
		for _, b := range f.ledger.rows {
			if b.ID == resp.ID {
				b.Status = domain.StatusCancelled
			}
		}
		f.ledger.mu.Unlock()

		_, err = f.uc.Execute(context.Background(), mrRequest(testNow, "10:00 AM", "Raj Shah", "111"))
		assert.NoError(t, err)
	})

	t.Run("patients may book repeatedly", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "555"))
		require.NoError(t, err)
		_, err = f.uc.Execute(context.Background(), patientRequest(testNow.AddDate(0, 0, 7), "10:00 AM", "555"))
		assert.NoError(t, err)
	})
}

func TestExecute_CapacityRaceAfterRetries(t *testing.T) {
	f := newFixture()
	f.tx.err = fmt.Errorf("gave up: %w", txmanager.ErrSerializationFailure)

	_, err := f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "111"))
	assert.ErrorIs(t, err, ErrCapacityExceededAtWrite)
	assert.Equal(t, []domain.RejectionReason{domain.ReasonCapacityExceededAtWrite}, f.recorder.rejected)
}

func TestExecute_StorageUnavailable(t *testing.T) {
	f := newFixture()
	f.ledger.getErr = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "111"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Empty(t, f.recorder.rejected)
}

func TestExecute_SMSFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture()
	f.sms.err = errors.New("gateway timeout")

	resp, err := f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "111"))
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, 1, f.sms.calls)
}

func TestExecute_NilSMSSender(t *testing.T) {
	f := newFixture()
	f.uc = NewUseCase(f.ledger, f.schedule, f.closures, f.settings, f.tx, nil, f.recorder, nopLogger{}).
		WithTimeProvider(&fakeClock{now: testNow})

	_, err := f.uc.Execute(context.Background(), patientRequest(testNow, "10:00 AM", "111"))
	assert.NoError(t, err)
}

func TestExecute_ConcurrentSubmissionsRespectCapacity(t *testing.T) {
	f := newFixture()

	const attempts = 10
	const capacity = 3 // "10:00 AM" slot

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(),
				patientRequest(testNow, "10:00 AM", fmt.Sprintf("contact-%02d", i)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotFull)
		}
	}

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, capacity, f.ledger.pendingCount(testNow, "10:00 AM"))
}
