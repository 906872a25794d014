package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a row does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")
)

const pgUniqueViolation = "23505"

// uniqueViolation maps a driver error onto the taken-field sentinel, or nil
// when err is not a unique constraint violation on users.
func uniqueViolation(err error) error {
	var where string

	var pgErr *pgconn.PgError
	var liteErr *sqlite.Error
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		where = pgErr.ConstraintName + " " + pgErr.Detail
	case errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT:
		where = liteErr.Error()
	default:
		return nil
	}

	switch {
	case strings.Contains(where, "username"):
		return ErrUsernameTaken
	case strings.Contains(where, "email"):
		return ErrEmailTaken
	}
	return nil
}
