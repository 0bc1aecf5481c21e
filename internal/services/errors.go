package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateUser is returned when an insert hits the unique
	// constraint on username or email. The database is the arbiter of
	// signup races, so callers must expect this even after a successful
	// existence pre-check.
	ErrDuplicateUser = errors.New("username or email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
