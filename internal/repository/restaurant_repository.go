package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
)

// RestaurantRepo provides access to restaurants, cuisines and the
// restaurant_cuisines join table.  The reservation engine reads
// restaurants only for display joins and never mutates them.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// Create inserts a restaurant and associates it with the supplied
// cuisine IDs in a single transaction.  Every cuisine ID must
// resolve to an existing cuisine, otherwise ErrCuisineNotFound is
// returned and nothing is written.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant, cuisineIDs []uint64) error {
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

	if len(cuisineIDs) > 0 {
		found, err := countCuisinesTx(ctx, tx, cuisineIDs)
		if err != nil {
			return err
		}
		if found != len(cuisineIDs) {
			return ErrCuisineNotFound
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO restaurants (name, description, logo) VALUES (?, ?, ?)`,
		rest.Name, rest.Description, rest.Logo)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rest.ID = uint64(id)

	for _, cid := range cuisineIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO restaurant_cuisines (restaurant_id, cuisine_id) VALUES (?, ?)`,
			rest.ID, cid); err != nil {
			return err
		}
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM restaurants WHERE id = ?`, rest.ID).Scan(&rest.CreatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// countCuisinesTx returns how many of the given cuisine IDs exist.
func countCuisinesTx(ctx context.Context, tx *sql.Tx, ids []uint64) (int, error) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT COUNT(*) FROM cuisines WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetByID fetches a restaurant by primary key without its cuisine
// tags.  Returns ErrRestaurantNotFound when the ID does not resolve.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, logo, created_at FROM restaurants WHERE id = ? LIMIT 1`,
		id).Scan(&rest.ID, &rest.Name, &rest.Description, &rest.Logo, &rest.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &rest, nil
}

// List returns a page of restaurants, optionally restricted to
// those tagged with any of the given cuisine IDs, together with the
// total count for pagination.  Cuisine tags are populated for each
// returned restaurant.
func (r *RestaurantRepo) List(ctx context.Context, cuisineIDs []uint64, limit, offset int) (int, []model.Restaurant, error) {
	base := `FROM restaurants r`
	var args []interface{}
	if len(cuisineIDs) > 0 {
		placeholders := make([]string, len(cuisineIDs))
		for i, id := range cuisineIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		base += ` JOIN restaurant_cuisines rc ON rc.restaurant_id = r.id
		          AND rc.cuisine_id IN (` + strings.Join(placeholders, ",") + `)`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT r.id) `+base, args...).Scan(&total); err != nil {
		return 0, nil, err
	}

	q := `SELECT DISTINCT r.id, r.name, r.description, r.logo, r.created_at ` + base +
		` ORDER BY r.id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	restaurants := make([]model.Restaurant, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Description, &rest.Logo, &rest.CreatedAt); err != nil {
			return 0, nil, err
		}
		rest.Cuisines = []model.Cuisine{}
		index[rest.ID] = len(restaurants)
		restaurants = append(restaurants, rest)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}
	if len(restaurants) == 0 {
		return total, restaurants, nil
	}

	// Populate cuisine tags for the whole page in one query.
	ids := make([]interface{}, 0, len(restaurants))
	placeholders := make([]string, 0, len(restaurants))
	for _, rest := range restaurants {
		ids = append(ids, rest.ID)
		placeholders = append(placeholders, "?")
	}
	cq := `SELECT rc.restaurant_id, c.id, c.name
	       FROM restaurant_cuisines rc
	       JOIN cuisines c ON c.id = rc.cuisine_id
	       WHERE rc.restaurant_id IN (` + strings.Join(placeholders, ",") + `)
	       ORDER BY rc.restaurant_id, c.name`
	crows, err := r.db.QueryContext(ctx, cq, ids...)
	if err != nil {
		return 0, nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var rid uint64
		var c model.Cuisine
		if err := crows.Scan(&rid, &c.ID, &c.Name); err != nil {
			return 0, nil, err
		}
		if idx, ok := index[rid]; ok {
			restaurants[idx].Cuisines = append(restaurants[idx].Cuisines, c)
		}
	}
	if err := crows.Err(); err != nil {
		return 0, nil, err
	}
	return total, restaurants, nil
}

// ListCuisines returns every cuisine ordered by name.
func (r *RestaurantRepo) ListCuisines(ctx context.Context) ([]model.Cuisine, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM cuisines ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cuisines := make([]model.Cuisine, 0)
	for rows.Next() {
		var c model.Cuisine
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cuisines = append(cuisines, c)
	}
	return cuisines, rows.Err()
}

// CreateCuisine inserts a new cuisine tag and populates its ID.
func (r *RestaurantRepo) CreateCuisine(ctx context.Context, c *model.Cuisine) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO cuisines (name) VALUES (?)`, c.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}
