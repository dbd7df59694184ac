package create_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krish-ktm/clinic-booking-service/internal/api/handlers"
	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	createBooking "github.com/krish-ktm/clinic-booking-service/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	resp *createBooking.Response
	err  error
	got  *createBooking.Request
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	s.got = req
	return s.resp, s.err
}

func doRequest(t *testing.T, uc *stubUseCase, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func validBody() CreateBookingRequest {
	return CreateBookingRequest{
		Flow:          "patient",
		BookingDate:   "2026-03-02",
		SlotTime:      "10:00 AM",
		Name:          "Asha Patel",
		ContactNumber: "9876543210",
	}
}

func TestHandle_Created(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &createBooking.Response{
		ID:            42,
		Flow:          domain.FlowPatient,
		Date:          time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		SlotTime:      "10:00 AM",
		Name:          "Asha Patel",
		ContactNumber: "9876543210",
		Status:        domain.StatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}}

	rec := doRequest(t, uc, validBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "2026-03-02", resp.BookingDate)
	assert.Equal(t, "10:00 AM", resp.SlotTime)

	require.NotNil(t, uc.got)
	assert.Equal(t, domain.FlowPatient, uc.got.Flow)
}

func TestHandle_BadPayloads(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		NewHandler(&stubUseCase{}, nopLogger{}).Handle(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad date format", func(t *testing.T) {
		body := validBody()
		body.BookingDate = "02-03-2026"
		rec := doRequest(t, &stubUseCase{}, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
	})

	t.Run("bad slot time format", func(t *testing.T) {
		body := validBody()
		body.SlotTime = "half past ten"
		rec := doRequest(t, &stubUseCase{}, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "10:30 AM")
	})
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"past date", createBooking.ErrPastDateNotAllowed, http.StatusBadRequest},
		{"weekend", createBooking.ErrWeekendNotAllowed, http.StatusBadRequest},
		{"too soon", createBooking.ErrDateTooSoon, http.StatusBadRequest},
		{"too far", createBooking.ErrDateTooFarAhead, http.StatusBadRequest},
		{"day not working", createBooking.ErrDayNotWorking, http.StatusBadRequest},
		{"date closed", createBooking.ErrDateClosed, http.StatusBadRequest},
		{"unknown slot", createBooking.ErrUnknownSlot, http.StatusBadRequest},
		{"slot full", createBooking.ErrSlotFull, http.StatusConflict},
		{"duplicate booking", createBooking.ErrDuplicateUpcomingBooking, http.StatusConflict},
		{"capacity race", createBooking.ErrCapacityExceededAtWrite, http.StatusConflict},
		{"storage unavailable", createBooking.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &stubUseCase{err: tt.err}, validBody())
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}
