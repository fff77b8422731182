// Package repository provides PostgreSQL-backed storage for users and
// contacts. Repositories operate on a minimal DB interface satisfied by
// *pgxpool.Pool so tests can substitute a mock pool.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a row is absent or not owned by the caller.
// The two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// DB is the subset of pgxpool.Pool used by the repositories
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation reports whether err is a PostgreSQL unique constraint error
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
