package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"riderDelivery/internal/db"
	"riderDelivery/models"
)

const userColumns = `id, username, role`

// UserRepository stores customer and admin accounts. Riders live in their own table.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create adds an account with the given role. A taken username is a validation error.
func (r *UserRepository) Create(ctx context.Context, username string, role models.Role) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if role == "" {
		role = models.RoleCustomer
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username, role) VALUES (?, ?)`, username, string(role))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username %q is taken", models.ErrValidation, username)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: username, Role: role}, nil
}

// GetByID returns the user or nil when it does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByUsername resolves the account behind a bearer token's name claim.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// SetRole promotes or demotes an account. It reports models.ErrNotFound for unknown usernames.
func (r *UserRepository) SetRole(ctx context.Context, username string, role models.Role) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE username = ?`, string(role), username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: user %q", models.ErrNotFound, username)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		u    models.User
		role string
	)
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}
