package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/pkg/dbmetrics"
	"github.com/krish-ktm/clinic-booking-service/pkg/ptr"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newBookingRows() *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns)
}

func addBookingRow(rows *sqlmock.Rows, id int64, flow, slot, status string) *sqlmock.Rows {
	return rows.AddRow(
		id, flow, testDate, slot, "Asha Patel", "9876543210",
		"9876543210", status, nil, nil, nil, testDate, testDate,
	)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(42), testDate, testDate))

	created, err := repo.Create(context.Background(), &domain.Booking{
		Flow:          domain.FlowPatient,
		BookingDate:   testDate,
		SlotTime:      "10:00 AM",
		Name:          "Asha Patel",
		ContactNumber: "9876543210",
		RequesterKey:  "9876543210",
		Status:        domain.StatusPending,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, testDate, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateRequester(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: mrOpenRequesterIndex})

	_, err = repo.Create(context.Background(), &domain.Booking{
		Flow:          domain.FlowMR,
		BookingDate:   testDate,
		SlotTime:      "10:00 AM",
		Name:          "Raj Shah",
		ContactNumber: "111",
		RequesterKey:  "raj shah|111",
		Status:        domain.StatusPending,
	})
	assert.ErrorIs(t, err, ErrDuplicateRequester)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_OtherUniqueViolationIsNotDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_pkey"})

	_, err = repo.Create(context.Background(), &domain.Booking{Flow: domain.FlowMR})
	assert.NotErrorIs(t, err, ErrDuplicateRequester)
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .+ FROM bookings").
			WithArgs(int64(7)).
			WillReturnRows(addBookingRow(newBookingRows(), 7, "patient", "10:00 AM", "pending"))

		booking, err := repo.GetByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), booking.ID)
		assert.Equal(t, domain.FlowPatient, booking.Flow)
		assert.Equal(t, domain.StatusPending, booking.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .+ FROM bookings").
			WithArgs(int64(8)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 8)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetWithFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := newBookingRows()
	addBookingRow(rows, 1, "mr", "10:00 AM", "pending")
	addBookingRow(rows, 2, "patient", "10:00 AM", "pending")

	mock.ExpectQuery("SELECT .+ FROM bookings WHERE").WillReturnRows(rows)

	bookings, err := repo.GetWithFilter(context.Background(), domain.LedgerFilter{
		StartDate: &testDate,
		EndDate:   &testDate,
		SlotTime:  ptr.Ptr(types.TimeString("10:00 AM")),
		Status:    ptr.Ptr(domain.StatusPending),
	})
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, domain.FlowMR, bookings[0].Flow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetWithFilter_LocksSingleDateReadInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM bookings WHERE .+ FOR UPDATE").
		WillReturnRows(newBookingRows())
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	bookings, err := repo.GetWithFilter(ctx, domain.LedgerFilter{
		StartDate: &testDate,
		EndDate:   &testDate,
		Status:    ptr.Ptr(domain.StatusPending),
	})
	require.NoError(t, err)
	assert.Empty(t, bookings)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetWithFilter_NoLockOutsideTx(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherFunc(
		func(expectedSQL, actualSQL string) error {
			assert.NotContains(t, actualSQL, "FOR UPDATE")
			return nil
		})))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("").WillReturnRows(newBookingRows())

	_, err = repo.GetWithFilter(context.Background(), domain.LedgerFilter{
		StartDate: &testDate,
		EndDate:   &testDate,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindOpenForRequester(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .+ FROM bookings WHERE").
			WillReturnRows(addBookingRow(newBookingRows(), 3, "mr", "10:00 AM", "pending"))

		booking, err := repo.FindOpenForRequester(context.Background(),
			domain.FlowMR, "raj shah|111", testDate)
		require.NoError(t, err)
		assert.Equal(t, int64(3), booking.ID)
	})

	t.Run("none open", func(t *testing.T) {
		mock.ExpectQuery("SELECT .+ FROM bookings WHERE").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindOpenForRequester(context.Background(),
			domain.FlowMR, "raj shah|111", testDate)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(context.Background(), 7, domain.StatusCompleted))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), 8, domain.StatusCompleted)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("invalid status never reaches the database", func(t *testing.T) {
		err := repo.UpdateStatus(context.Background(), 7, "archived")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE bookings SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Cancel(context.Background(), 7, "patient request"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
