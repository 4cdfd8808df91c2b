package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
)

// BranchRepo provides access to the branches table.  Branches sit
// between restaurants and tables in the hierarchy: a branch always
// belongs to an existing restaurant, and deleting one is refused
// while tables still reference it.
type BranchRepo struct {
	db *sql.DB
}

// NewBranchRepo returns a BranchRepo bound to the given database.
func NewBranchRepo(db *sql.DB) *BranchRepo { return &BranchRepo{db: db} }

// Create inserts a branch after verifying its restaurant exists.
// Returns ErrRestaurantNotFound when the parent is missing.
func (r *BranchRepo) Create(ctx context.Context, b *model.Branch) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = ?)`, b.RestaurantID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRestaurantNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO branches (restaurant_id, city, country, address, location) VALUES (?, ?, ?, ?, ?)`,
		b.RestaurantID, b.City, b.Country, b.Address, b.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM branches WHERE id = ?`, b.ID).Scan(&b.CreatedAt)
}

// GetByID fetches a branch by primary key.  Returns
// ErrBranchNotFound when the ID does not resolve.
func (r *BranchRepo) GetByID(ctx context.Context, id uint64) (*model.Branch, error) {
	var b model.Branch
	err := r.db.QueryRowContext(ctx,
		`SELECT id, restaurant_id, city, country, address, location, created_at FROM branches WHERE id = ? LIMIT 1`,
		id).Scan(&b.ID, &b.RestaurantID, &b.City, &b.Country, &b.Address, &b.Location, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &b, nil
}

// BranchFilter narrows a branch listing.  Every field is optional:
// the zero value matches all branches.  CuisineIDs keeps branches
// whose restaurant carries any of the given cuisine tags; Search
// matches the restaurant name as a substring.
type BranchFilter struct {
	RestaurantID uint64
	City         string
	CuisineIDs   []uint64
	Search       string
}

// List returns a page of branches matching the filter plus the
// total count across all pages.  The cuisine join can produce one
// row per matching tag, so both queries deduplicate on branch id.
func (r *BranchRepo) List(ctx context.Context, f BranchFilter, limit, offset int) (int, []model.Branch, error) {
	base := `FROM branches b JOIN restaurants r ON r.id = b.restaurant_id`
	conds := []string{"1 = 1"}
	var args []interface{}
	if len(f.CuisineIDs) > 0 {
		base += ` JOIN restaurant_cuisines rc ON rc.restaurant_id = r.id`
		placeholders := make([]string, len(f.CuisineIDs))
		for i, id := range f.CuisineIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		conds = append(conds, "rc.cuisine_id IN ("+strings.Join(placeholders, ",")+")")
	}
	if f.RestaurantID != 0 {
		conds = append(conds, "b.restaurant_id = ?")
		args = append(args, f.RestaurantID)
	}
	if f.City != "" {
		conds = append(conds, "b.city LIKE ?")
		args = append(args, "%"+f.City+"%")
	}
	if f.Search != "" {
		conds = append(conds, "r.name LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}
	base += ` WHERE ` + strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT b.id) `+base, args...).Scan(&total); err != nil {
		return 0, nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT b.id, b.restaurant_id, b.city, b.country, b.address, b.location, b.created_at `+base+
			` ORDER BY b.id LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	branches := make([]model.Branch, 0)
	for rows.Next() {
		var b model.Branch
		if err := rows.Scan(&b.ID, &b.RestaurantID, &b.City, &b.Country, &b.Address, &b.Location, &b.CreatedAt); err != nil {
			return 0, nil, err
		}
		branches = append(branches, b)
	}
	return total, branches, rows.Err()
}

// BranchRecommendation is a branch joined with its restaurant's
// name, as returned by the recommendation query.
type BranchRecommendation struct {
	model.Branch
	RestaurantName string `json:"restaurant_name"`
}

// Recommendations returns up to limit branches in the same city as
// the given branch whose restaurant shares at least one cuisine
// with the branch's own restaurant.  The source branch itself is
// excluded; other branches of the same restaurant are fair game.
// Returns ErrBranchNotFound when the branch does not exist.
func (r *BranchRepo) Recommendations(ctx context.Context, branchID uint64, limit int) ([]BranchRecommendation, error) {
	src, err := r.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	const q = `SELECT DISTINCT b.id, b.restaurant_id, b.city, b.country, b.address, b.location, b.created_at, r.name
	           FROM branches b
	           JOIN restaurants r ON r.id = b.restaurant_id
	           JOIN restaurant_cuisines rc ON rc.restaurant_id = r.id
	           WHERE b.city = ?
	             AND b.id <> ?
	             AND rc.cuisine_id IN (
	               SELECT cuisine_id FROM restaurant_cuisines WHERE restaurant_id = ?
	             )
	           ORDER BY b.id
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, src.City, src.ID, src.RestaurantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]BranchRecommendation, 0)
	for rows.Next() {
		var rec BranchRecommendation
		if err := rows.Scan(&rec.ID, &rec.RestaurantID, &rec.City, &rec.Country, &rec.Address, &rec.Location,
			&rec.CreatedAt, &rec.RestaurantName); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// BranchPatch lists the branch fields a partial update may change.
type BranchPatch struct {
	City     *string `json:"city"`
	Country  *string `json:"country"`
	Address  *string `json:"address"`
	Location *string `json:"location"`
}

// Update applies the non-nil fields of the patch and returns the
// updated branch.  An empty patch returns the current record
// unchanged.  Returns ErrBranchNotFound when the branch is missing.
func (r *BranchRepo) Update(ctx context.Context, id uint64, patch BranchPatch) (*model.Branch, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var sets []string
	var args []interface{}
	if patch.City != nil {
		sets = append(sets, "city = ?")
		args = append(args, *patch.City)
	}
	if patch.Country != nil {
		sets = append(sets, "country = ?")
		args = append(args, *patch.Country)
	}
	if patch.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *patch.Address)
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *patch.Location)
	}
	if len(sets) == 0 {
		return current, nil
	}
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx,
		`UPDATE branches SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a branch.  It refuses with ErrConflict while
// tables still belong to the branch and returns ErrBranchNotFound
// when the branch does not exist.
func (r *BranchRepo) Delete(ctx context.Context, id uint64) error {
	var tables int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tables WHERE branch_id = ?`, id).Scan(&tables); err != nil {
		return err
	}
	if tables > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBranchNotFound
	}
	return nil
}
