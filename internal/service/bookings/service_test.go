package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	bookingstore "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/booking"
	"github.com/krish-ktm/clinic-booking-service/internal/service/bookings/models"
	"github.com/krish-ktm/clinic-booking-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubRepo struct {
	byID       map[int64]*domain.Booking
	cancelled  []int64
	statusSets map[int64]domain.BookingStatus
	listed     []*domain.Booking
	gotFilter  *domain.LedgerFilter
	gotKey     string
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		byID:       map[int64]*domain.Booking{},
		statusSets: map[int64]domain.BookingStatus{},
	}
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if b, ok := r.byID[id]; ok {
		return b, nil
	}
	return nil, bookingstore.ErrBookingNotFound
}

func (r *stubRepo) GetWithFilter(_ context.Context, filter domain.LedgerFilter) ([]*domain.Booking, error) {
	r.gotFilter = &filter
	return r.listed, nil
}

func (r *stubRepo) GetByRequesterKey(_ context.Context, key string, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	r.gotKey = key
	return r.listed, nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	if _, ok := r.byID[id]; !ok {
		return bookingstore.ErrBookingNotFound
	}
	r.statusSets[id] = status
	return nil
}

func (r *stubRepo) Cancel(_ context.Context, id int64, _ string) error {
	if _, ok := r.byID[id]; !ok {
		return bookingstore.ErrBookingNotFound
	}
	r.cancelled = append(r.cancelled, id)
	return nil
}

func pendingBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		Flow:        domain.FlowPatient,
		BookingDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		SlotTime:    "10:00 AM",
		Status:      domain.StatusPending,
	}
}

func TestService_Cancel(t *testing.T) {
	t.Run("pending booking cancels", func(t *testing.T) {
		repo := newStubRepo()
		repo.byID[1] = pendingBooking(1)
		svc := NewService(repo, nopLogger{})

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CancellationReason: "schedule change"})
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, repo.cancelled)
	})

	t.Run("non-pending booking refuses", func(t *testing.T) {
		for _, status := range []domain.BookingStatus{
			domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow,
		} {
			repo := newStubRepo()
			b := pendingBooking(1)
			b.Status = status
			repo.byID[1] = b
			svc := NewService(repo, nopLogger{})

			err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})
			assert.ErrorIs(t, err, ErrCannotCancel, "status %s", status)
			assert.Empty(t, repo.cancelled)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc := NewService(newStubRepo(), nopLogger{})
		err := svc.Cancel(context.Background(), 99, &models.CancelBookingRequest{})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	repo := newStubRepo()
	repo.byID[1] = pendingBooking(1)
	svc := NewService(repo, nopLogger{})

	t.Run("valid transition", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, repo.statusSets[1])
	})

	t.Run("unknown status", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "archived"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown booking", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), 99, &models.UpdateStatusRequest{Status: "completed"})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_GetRequesterBookings(t *testing.T) {
	t.Run("mr identity uses name and contact", func(t *testing.T) {
		repo := newStubRepo()
		repo.listed = []*domain.Booking{pendingBooking(1)}
		svc := NewService(repo, nopLogger{})

		resp, err := svc.GetRequesterBookings(context.Background(), &models.GetRequesterBookingsRequest{
			Flow: "mr", Name: "Raj Shah", ContactNumber: "111",
		})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 1)
		assert.Equal(t, "raj shah|111", repo.gotKey)
	})

	t.Run("patient identity is contact only", func(t *testing.T) {
		repo := newStubRepo()
		svc := NewService(repo, nopLogger{})

		_, err := svc.GetRequesterBookings(context.Background(), &models.GetRequesterBookingsRequest{
			Flow: "patient", ContactNumber: "9876543210",
		})
		require.NoError(t, err)
		assert.Equal(t, "9876543210", repo.gotKey)
	})

	t.Run("mr without name rejected", func(t *testing.T) {
		svc := NewService(newStubRepo(), nopLogger{})
		_, err := svc.GetRequesterBookings(context.Background(), &models.GetRequesterBookingsRequest{
			Flow: "mr", ContactNumber: "111",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		svc := NewService(newStubRepo(), nopLogger{})
		_, err := svc.GetRequesterBookings(context.Background(), &models.GetRequesterBookingsRequest{
			Flow: "patient", ContactNumber: "111", Status: ptr.Ptr("archived"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_List(t *testing.T) {
	repo := newStubRepo()
	repo.listed = []*domain.Booking{pendingBooking(1), pendingBooking(2)}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{
		Flow:   ptr.Ptr("patient"),
		Status: ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	require.NotNil(t, repo.gotFilter)
	assert.Equal(t, domain.FlowPatient, *repo.gotFilter.Flow)
	assert.Equal(t, domain.StatusPending, *repo.gotFilter.Status)

	t.Run("invalid flow filter", func(t *testing.T) {
		_, err := svc.List(context.Background(), &models.ListBookingsRequest{Flow: ptr.Ptr("doctor")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
