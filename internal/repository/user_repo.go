package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo_list/internal/models"
	"todo_list/internal/repository/db"
)

type UserRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewUserRepository(conn *sql.DB, dialect db.Dialect) *UserRepository {
	return &UserRepository{db: conn, dialect: dialect}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	userColumns = `id, username, email, hashed_password, is_active, created_at`

	insertUserSQL           = `INSERT INTO users (username, email, hashed_password, is_active, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`
	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	usernameExistsSQL       = `SELECT 1 FROM users WHERE username = ?`
	emailExistsSQL          = `SELECT 1 FROM users WHERE email = ?`
)

// Create inserts u and returns it with its id. Username is checked before email,
// so a request colliding on both reports ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	} else {
		u.CreatedAt = u.CreatedAt.UTC()
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, check := range []struct {
			query string
			value string
			taken error
		}{
			{usernameExistsSQL, u.Username, ErrUsernameTaken},
			{emailExistsSQL, u.Email, ErrEmailTaken},
		} {
			exists, err := r.exists(ctx, tx, check.query, check.value)
			if err != nil {
				return err
			}
			if exists {
				return check.taken
			}
		}

		err := tx.QueryRowContext(ctx, r.dialect.Rebind(insertUserSQL),
			u.Username, u.Email, u.PasswordHash, u.IsActive, u.CreatedAt,
		).Scan(&u.ID)
		if err != nil {
			// a concurrent registration can still win the race past the checks above
			if taken := uniqueViolation(err); taken != nil {
				return taken
			}
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *UserRepository) exists(ctx context.Context, tx *sql.Tx, query, value string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, r.dialect.Rebind(query), value).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return true, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectUserByIDSQL), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectUserByUsernameSQL), username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
