package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
)

func newMock(t *testing.T) (*BookingRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewBookingRepo(db), mock, func() { db.Close() }
}

var bookingCols = []string{"id", "user_id", "table_id", "start_time", "end_time", "special_requests", "status", "created_at", "updated_at"}

func TestBookingGetByID(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	mock.ExpectQuery(`(?s)SELECT .+ FROM bookings WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(7, 1, 3, start, end, nil, "pending", start, start))

	b, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), b.ID)
	assert.Equal(t, uint64(3), b.TableID)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingGetByIDNotFound(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(`(?s)SELECT .+ FROM bookings WHERE id = \?`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingHasOverlap(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	// Argument order: table, excluded id, then end before start so
	// the predicate reads start_time < end AND end_time > start.
	mock.ExpectQuery(`(?s)SELECT EXISTS\(.+FROM bookings.+status <> 'cancelled'.+\)`).
		WithArgs(uint64(3), uint64(0), end, start).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	overlap, err := repo.HasOverlap(context.Background(), 3, start, end, 0)
	require.NoError(t, err)
	assert.True(t, overlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreate(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT id FROM bookings.+FOR UPDATE`).
		WithArgs(uint64(3), uint64(0), end, start).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(uint64(1), uint64(3), start, end, nil, model.StatusPending).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(`SELECT created_at, updated_at FROM bookings WHERE id = \?`).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(start, start))
	mock.ExpectCommit()

	b := &model.Booking{UserID: 1, TableID: 3, StartTime: start, EndTime: end, Status: model.StatusPending}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, uint64(9), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateSlotTaken(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT id FROM bookings.+FOR UPDATE`).
		WithArgs(uint64(3), uint64(0), end, start).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectRollback()

	b := &model.Booking{UserID: 1, TableID: 3, StartTime: start, EndTime: end, Status: model.StatusPending}
	err := repo.Create(context.Background(), b)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatusOnly(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	current := &model.Booking{ID: 9, UserID: 1, TableID: 3, StartTime: start, EndTime: end, Status: model.StatusPending}

	// A pure status change skips the locking overlap read.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \?`).
		WithArgs(model.StatusConfirmed, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)SELECT .+ FROM bookings WHERE id = \?`).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(9, 1, 3, start, end, nil, "confirmed", start, start))
	mock.ExpectCommit()

	confirmed := model.StatusConfirmed
	updated, err := repo.Update(context.Background(), current, model.BookingPatch{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateIntervalConflict(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	current := &model.Booking{ID: 9, UserID: 1, TableID: 3, StartTime: start, EndTime: end, Status: model.StatusPending}
	newEnd := end.Add(time.Hour)

	// The moved interval is re-checked excluding the booking itself.
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT id FROM bookings.+FOR UPDATE`).
		WithArgs(uint64(3), uint64(9), newEnd, start).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), current, model.BookingPatch{EndTime: &newEnd})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingDeleteNotFound(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec(`DELETE FROM bookings WHERE id = \?`).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListByUser(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(6 * time.Hour)
	cols := []string{"id", "name", "address", "max_capacity", "table_number", "floor", "start_time", "end_time", "status"}

	mock.ExpectQuery(`(?s)SELECT b\.id, r\.name, br\.address.+WHERE b\.user_id = \? AND b\.status = 'confirmed' AND b\.start_time > \?`).
		WithArgs(uint64(1), now).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(9, "Trattoria", "Rua A 1", 4, 2, 0, start, start.Add(2*time.Hour), "confirmed"))

	views, err := repo.ListByUser(context.Background(), 1, model.FilterUpcoming, now)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Trattoria", views[0].RestaurantName)
	assert.Equal(t, uint32(2), views[0].TableNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListByUserInvalidFilter(t *testing.T) {
	repo, _, done := newMock(t)
	defer done()

	_, err := repo.ListByUser(context.Background(), 1, model.BookingFilter("all"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestBookingListByBranch(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings b JOIN tables t`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`(?s)SELECT b\.id, b\.user_id.+WHERE t\.branch_id = \?.+LIMIT \? OFFSET \?`).
		WithArgs(uint64(1), 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "start_time", "end_time", "status", "table_number", "floor", "max_capacity", "name"}).
			AddRow(9, 1, start, start.Add(time.Hour), "pending", 2, 0, 4, "Alice"))

	total, views, err := repo.ListByBranch(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, views, 1)
	assert.Equal(t, "Alice", views[0].CustomerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
