package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
)

// BookingRepo provides access to the bookings table.  It is the
// only component that writes booking rows.  Writes that depend on a
// prior availability check run inside a transaction that re-checks
// the overlap predicate with a locking read, so the no-overlap
// invariant holds even when several server processes share the
// database.  In-process serialization per table is layered on top
// by the service.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, table_id, start_time, end_time, special_requests, status, created_at, updated_at`

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.TableID, &b.StartTime, &b.EndTime, &b.SpecialRequests, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByID fetches a booking by primary key.  Returns
// ErrBookingNotFound when the ID does not resolve.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, id))
}

// HasOverlap reports whether any non-cancelled booking on the table
// overlaps [start, end).  Two intervals overlap iff each starts
// before the other ends; bookings that merely touch at a boundary
// do not overlap.  excludeID removes one booking from the overlap
// set (the booking being updated); pass zero to exclude none.
func (r *BookingRepo) HasOverlap(ctx context.Context, tableID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM bookings
	             WHERE table_id = ?
	               AND id <> ?
	               AND status <> 'cancelled'
	               AND start_time < ?
	               AND end_time > ?
	           )`
	var overlap bool
	err := r.db.QueryRowContext(ctx, q, tableID, excludeID, end, start).Scan(&overlap)
	return overlap, err
}

// hasOverlapForUpdateTx runs the overlap predicate inside tx with a
// locking read.  Under InnoDB the FOR UPDATE read takes index range
// locks on the table's bookings, serializing concurrent
// check-then-insert sequences that touch the same table.
func hasOverlapForUpdateTx(ctx context.Context, tx *sql.Tx, tableID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT id FROM bookings
	           WHERE table_id = ?
	             AND id <> ?
	             AND status <> 'cancelled'
	             AND start_time < ?
	             AND end_time > ?
	           LIMIT 1
	           FOR UPDATE`
	var id uint64
	err := tx.QueryRowContext(ctx, q, tableID, excludeID, end, start).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new booking in a single transaction that first
// re-checks availability with a locking read.  If the interval
// conflicts with a non-cancelled booking on the same table the
// transaction is rolled back and ErrSlotUnavailable is returned;
// either the whole booking commits or nothing does.  On success the
// record is read back so generated fields are populated.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	overlap, err := hasOverlapForUpdateTx(ctx, tx, b.TableID, b.StartTime, b.EndTime, 0)
	if err != nil {
		return err
	}
	if overlap {
		return ErrSlotUnavailable
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, table_id, start_time, end_time, special_requests, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.UserID, b.TableID, b.StartTime, b.EndTime, b.SpecialRequests, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if err := tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update applies the non-nil fields of the patch to the booking in
// a single transaction.  current must be the latest committed state
// of the booking; the new interval is derived from it plus the
// patch.  When either end of the interval moves, availability is
// re-checked with a locking read against the new interval,
// excluding the booking itself from the overlap set.  The updated
// record is returned; an empty patch returns current unchanged.
func (r *BookingRepo) Update(ctx context.Context, current *model.Booking, patch model.BookingPatch) (*model.Booking, error) {
	if patch.Empty() {
		return current, nil
	}

	newStart := current.StartTime
	newEnd := current.EndTime
	if patch.StartTime != nil {
		newStart = *patch.StartTime
	}
	if patch.EndTime != nil {
		newEnd = *patch.EndTime
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if patch.ChangesInterval() {
		overlap, err := hasOverlapForUpdateTx(ctx, tx, current.TableID, newStart, newEnd, current.ID)
		if err != nil {
			return nil, err
		}
		if overlap {
			return nil, ErrSlotUnavailable
		}
	}

	var sets []string
	var args []interface{}
	if patch.StartTime != nil {
		sets = append(sets, "start_time = ?")
		args = append(args, *patch.StartTime)
	}
	if patch.EndTime != nil {
		sets = append(sets, "end_time = ?")
		args = append(args, *patch.EndTime)
	}
	if patch.SpecialRequests != nil {
		sets = append(sets, "special_requests = ?")
		args = append(args, *patch.SpecialRequests)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	args = append(args, current.ID)
	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, err
	}

	updated, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, current.ID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return updated, nil
}

// Delete hard-removes a booking.  Returns ErrBookingNotFound when
// no row was deleted.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// UserBookingView is a booking joined with table, branch and
// restaurant display fields, as returned to customers listing their
// own bookings.
type UserBookingView struct {
	ID             uint64              `json:"id"`
	RestaurantName string              `json:"restaurant_name"`
	BranchAddress  string              `json:"branch_address"`
	Persons        uint32              `json:"persons"`
	TableNumber    uint32              `json:"table_number"`
	Floor          int32               `json:"floor"`
	StartTime      time.Time           `json:"start_time"`
	EndTime        time.Time           `json:"end_time"`
	Status         model.BookingStatus `json:"status"`
}

// ListByUser returns the user's bookings in the requested
// status-derived bucket, newest start time first.  The now argument
// anchors the upcoming/past/pending time bounds so callers (and
// tests) control the clock.  An unknown filter yields
// ErrInvalidFilter; an empty result is not an error.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, filter model.BookingFilter, now time.Time) ([]UserBookingView, error) {
	var cond string
	args := []interface{}{userID}
	switch filter {
	case model.FilterUpcoming:
		cond = `AND b.status = 'confirmed' AND b.start_time > ?`
		args = append(args, now)
	case model.FilterPast:
		cond = `AND b.status = 'confirmed' AND b.start_time < ?`
		args = append(args, now)
	case model.FilterPending:
		cond = `AND b.status = 'pending' AND b.start_time > ?`
		args = append(args, now)
	case model.FilterCancelled:
		cond = `AND b.status = 'cancelled'`
	default:
		return nil, ErrInvalidFilter
	}

	q := `SELECT b.id, r.name, br.address, t.max_capacity, t.table_number, t.floor,
	             b.start_time, b.end_time, b.status
	      FROM bookings b
	      JOIN tables t ON t.id = b.table_id
	      JOIN branches br ON br.id = t.branch_id
	      JOIN restaurants r ON r.id = br.restaurant_id
	      WHERE b.user_id = ? ` + cond + `
	      ORDER BY b.start_time DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]UserBookingView, 0)
	for rows.Next() {
		var v UserBookingView
		if err := rows.Scan(&v.ID, &v.RestaurantName, &v.BranchAddress, &v.Persons, &v.TableNumber, &v.Floor,
			&v.StartTime, &v.EndTime, &v.Status); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// BranchBookingView is a booking joined with table and customer
// display fields, as returned to branch staff.
type BranchBookingView struct {
	ID           uint64              `json:"id"`
	UserID       uint64              `json:"user_id"`
	StartTime    time.Time           `json:"start_time"`
	EndTime      time.Time           `json:"end_time"`
	Status       model.BookingStatus `json:"status"`
	TableNumber  uint32              `json:"table_number"`
	Floor        int32               `json:"floor"`
	MaxCapacity  uint32              `json:"max_capacity"`
	CustomerName string              `json:"customer_name"`
}

// ListByBranch returns a page of the branch's bookings, newest
// start time first, plus the total count across all pages.  The
// caller is expected to have verified the branch exists.
func (r *BookingRepo) ListByBranch(ctx context.Context, branchID uint64, limit, offset int) (int, []BranchBookingView, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b JOIN tables t ON t.id = b.table_id WHERE t.branch_id = ?`,
		branchID).Scan(&total); err != nil {
		return 0, nil, err
	}

	const q = `SELECT b.id, b.user_id, b.start_time, b.end_time, b.status,
	                  t.table_number, t.floor, t.max_capacity, u.name
	           FROM bookings b
	           JOIN tables t ON t.id = b.table_id
	           JOIN users u ON u.id = b.user_id
	           WHERE t.branch_id = ?
	           ORDER BY b.start_time DESC
	           LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, branchID, limit, offset)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	views := make([]BranchBookingView, 0)
	for rows.Next() {
		var v BranchBookingView
		if err := rows.Scan(&v.ID, &v.UserID, &v.StartTime, &v.EndTime, &v.Status,
			&v.TableNumber, &v.Floor, &v.MaxCapacity, &v.CustomerName); err != nil {
			return 0, nil, err
		}
		views = append(views, v)
	}
	return total, views, rows.Err()
}
