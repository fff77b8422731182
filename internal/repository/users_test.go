package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsersWithMock(t *testing.T) (*PostgresUsers, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresUsers(mock), mock
}

func TestUsersCreate_Success(t *testing.T) {
	repo, mock := newUsersWithMock(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Alice", "Doe", "alice@example.com", "hashed", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	user, err := repo.Create(context.Background(), "Alice", "Doe", "alice@example.com", "hashed")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newUsersWithMock(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Alice", "Doe", "alice@example.com", "hashed", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), "Alice", "Doe", "alice@example.com", "hashed")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersGetByEmail_Found(t *testing.T) {
	repo, mock := newUsersWithMock(t)
	id := uuid.New()
	created := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, first_name, last_name, email, password_hash, created_at\s+FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "created_at"}).
			AddRow(id, "Alice", "Doe", "alice@example.com", "hashed", created))

	user, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "hashed", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersGetByEmail_NotFound(t *testing.T) {
	repo, mock := newUsersWithMock(t)

	mock.ExpectQuery(`SELECT id, first_name, last_name, email, password_hash, created_at\s+FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersGetByIDAndEmail_RequiresBothToMatch(t *testing.T) {
	repo, mock := newUsersWithMock(t)
	id := uuid.New()

	// The query itself must filter on both columns jointly
	mock.ExpectQuery(`SELECT id, first_name, last_name, email, created_at\s+FROM users WHERE id = \$1 AND email = \$2`).
		WithArgs(id, "alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name", "email", "created_at"}).
			AddRow(id, "Alice", "Doe", "alice@example.com", time.Now().UTC()))

	user, err := repo.GetByIDAndEmail(context.Background(), id, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}
