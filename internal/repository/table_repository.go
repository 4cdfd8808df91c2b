package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
)

// TableRepo provides access to the tables table.  A table number is
// unique within its branch; the schema enforces this with a unique
// index on (branch_id, table_number) and the repository surfaces
// violations as ErrDuplicateTable.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// Create inserts a table after verifying its branch exists.
// Returns ErrBranchNotFound for a missing branch and
// ErrDuplicateTable when the table number is already taken within
// the branch.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM branches WHERE id = ?)`, t.BranchID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrBranchNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tables (branch_id, table_number, max_capacity, is_side_table, is_open_space, floor)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.BranchID, t.TableNumber, t.MaxCapacity, t.IsSideTable, t.IsOpenSpace, t.Floor)
	if err != nil {
		// MySQL error 1062 = duplicate entry on (branch_id, table_number).
		if strings.Contains(err.Error(), "1062") {
			return ErrDuplicateTable
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM tables WHERE id = ?`, t.ID).Scan(&t.CreatedAt)
}

// GetByID fetches a table by primary key.  Returns ErrTableNotFound
// when the ID does not resolve.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	var t model.Table
	err := r.db.QueryRowContext(ctx,
		`SELECT id, branch_id, table_number, max_capacity, is_side_table, is_open_space, floor, created_at
		 FROM tables WHERE id = ? LIMIT 1`,
		id).Scan(&t.ID, &t.BranchID, &t.TableNumber, &t.MaxCapacity, &t.IsSideTable, &t.IsOpenSpace, &t.Floor, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByBranch returns a page of tables in a branch plus the total
// count.  Returns ErrBranchNotFound when the branch is missing.
func (r *TableRepo) ListByBranch(ctx context.Context, branchID uint64, limit, offset int) (int, []model.Table, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM branches WHERE id = ?)`, branchID).Scan(&exists); err != nil {
		return 0, nil, err
	}
	if !exists {
		return 0, nil, ErrBranchNotFound
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tables WHERE branch_id = ?`, branchID).Scan(&total); err != nil {
		return 0, nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, branch_id, table_number, max_capacity, is_side_table, is_open_space, floor, created_at
		 FROM tables WHERE branch_id = ? ORDER BY id LIMIT ? OFFSET ?`,
		branchID, limit, offset)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	tables := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.BranchID, &t.TableNumber, &t.MaxCapacity, &t.IsSideTable, &t.IsOpenSpace, &t.Floor, &t.CreatedAt); err != nil {
			return 0, nil, err
		}
		tables = append(tables, t)
	}
	return total, tables, rows.Err()
}

// Update applies the non-nil fields of the patch and returns the
// updated table.  A changed table number is checked for conflicts
// within the branch first.  An empty patch returns the current
// record unchanged.
func (r *TableRepo) Update(ctx context.Context, id uint64, patch model.TablePatch) (*model.Table, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	if patch.TableNumber != nil && *patch.TableNumber != current.TableNumber {
		var taken bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM tables WHERE branch_id = ? AND table_number = ? AND id <> ?)`,
			current.BranchID, *patch.TableNumber, id).Scan(&taken); err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateTable
		}
	}

	var sets []string
	var args []interface{}
	if patch.TableNumber != nil {
		sets = append(sets, "table_number = ?")
		args = append(args, *patch.TableNumber)
	}
	if patch.MaxCapacity != nil {
		sets = append(sets, "max_capacity = ?")
		args = append(args, *patch.MaxCapacity)
	}
	if patch.IsSideTable != nil {
		sets = append(sets, "is_side_table = ?")
		args = append(args, *patch.IsSideTable)
	}
	if patch.IsOpenSpace != nil {
		sets = append(sets, "is_open_space = ?")
		args = append(args, *patch.IsOpenSpace)
	}
	if patch.Floor != nil {
		sets = append(sets, "floor = ?")
		args = append(args, *patch.Floor)
	}
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx,
		`UPDATE tables SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ListAvailable returns every table in the branch that seats at
// least partySize guests and has no non-cancelled booking
// overlapping [start, end).  The overlap predicate is the half-open
// interval test: an existing booking conflicts iff its start_time
// is before the requested end and its end_time is after the
// requested start, so back-to-back reservations never conflict.
func (r *TableRepo) ListAvailable(ctx context.Context, branchID uint64, partySize uint32, start, end time.Time) ([]model.Table, error) {
	const q = `SELECT t.id, t.branch_id, t.table_number, t.max_capacity, t.is_side_table, t.is_open_space, t.floor, t.created_at
	           FROM tables t
	           WHERE t.branch_id = ?
	             AND t.max_capacity >= ?
	             AND NOT EXISTS (
	               SELECT 1 FROM bookings b
	               WHERE b.table_id = t.id
	                 AND b.status <> 'cancelled'
	                 AND b.start_time < ?
	                 AND b.end_time > ?
	             )
	           ORDER BY t.table_number`
	rows, err := r.db.QueryContext(ctx, q, branchID, partySize, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.BranchID, &t.TableNumber, &t.MaxCapacity, &t.IsSideTable, &t.IsOpenSpace, &t.Floor, &t.CreatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
