package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
)

// UserRepo provides access to the users table.  The reservation
// engine only ever reads users to validate booking references; the
// write path exists for signup.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user with an already-hashed password and
// populates the generated ID.  Emails are normalized to lower case
// before insertion.  A duplicate email yields ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, phone, hashed_password, role) VALUES (?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.Phone, u.HashedPassword, u.Role)
	if err != nil {
		// MySQL error 1062 = duplicate entry on the unique email index.
		if strings.Contains(err.Error(), "1062") {
			return ErrEmailTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM users WHERE id = ?`, u.ID).Scan(&u.CreatedAt)
}

// GetByEmail fetches a user by normalized email.  Returns
// ErrUserNotFound when no account exists for the address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, hashed_password, role, created_at FROM users WHERE email = ? LIMIT 1`,
		email).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.HashedPassword, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by primary key.  Returns ErrUserNotFound
// when the ID does not resolve.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, hashed_password, role, created_at FROM users WHERE id = ? LIMIT 1`,
		id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.HashedPassword, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
