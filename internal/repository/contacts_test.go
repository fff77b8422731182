package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactColumns = []string{"id", "user_id", "first_name", "last_name", "phone", "email", "created_at"}

func newContactsWithMock(t *testing.T) (*PostgresContacts, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresContacts(mock), mock
}

func strptr(s string) *string { return &s }

func TestContactsList_ScopedAndOrdered(t *testing.T) {
	repo, mock := newContactsWithMock(t)
	owner := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, user_id, first_name, last_name, phone, email, created_at\s+FROM contacts WHERE user_id = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(owner, 100, 0).
		WillReturnRows(pgxmock.NewRows(contactColumns).
			AddRow(uuid.New(), owner, "Marie", "Curie", "0123456789", strptr("marie@example.com"), now).
			AddRow(uuid.New(), owner, "Bob", "Stone", "5551234567", nil, now.Add(-time.Hour)))

	contacts, err := repo.List(context.Background(), owner, 0, 100)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Curie", contacts[0].LastName)
	assert.Nil(t, contacts[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsGet_NotFound(t *testing.T) {
	repo, mock := newContactsWithMock(t)
	owner := uuid.New()
	contactID := uuid.New()

	mock.ExpectQuery(`SELECT id, user_id, first_name, last_name, phone, email, created_at\s+FROM contacts WHERE id = \$1 AND user_id = \$2`).
		WithArgs(contactID, owner).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), owner, contactID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsCreate_AssignsIDAndTimestamp(t *testing.T) {
	repo, mock := newContactsWithMock(t)
	owner := uuid.New()

	mock.ExpectExec(`INSERT INTO contacts`).
		WithArgs(pgxmock.AnyArg(), owner, "Bob", "Stone", "5551234567", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	contact, err := repo.Create(context.Background(), owner, ContactFields{
		FirstName: "Bob",
		LastName:  "Stone",
		Phone:     "5551234567",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, contact.ID)
	assert.Equal(t, owner, contact.OwnerID)
	assert.False(t, contact.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsUpdate_FullOverwrite(t *testing.T) {
	repo, mock := newContactsWithMock(t)
	owner := uuid.New()
	contactID := uuid.New()
	created := time.Now().UTC()

	mock.ExpectQuery(`UPDATE contacts\s+SET first_name = \$1, last_name = \$2, phone = \$3, email = \$4\s+WHERE id = \$5 AND user_id = \$6\s+RETURNING`).
		WithArgs("Marie", "Curie", "0123456789", pgxmock.AnyArg(), contactID, owner).
		WillReturnRows(pgxmock.NewRows(contactColumns).
			AddRow(contactID, owner, "Marie", "Curie", "0123456789", nil, created))

	contact, err := repo.Update(context.Background(), owner, contactID, ContactFields{
		FirstName: "Marie",
		LastName:  "Curie",
		Phone:     "0123456789",
	})
	require.NoError(t, err)
	assert.Equal(t, contactID, contact.ID)
	assert.Equal(t, created, contact.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsUpdate_MissingOrForeignRow(t *testing.T) {
	// A concurrent delete or someone else's contact id both surface as
	// ErrNotFound from the single check-and-write statement.
	repo, mock := newContactsWithMock(t)
	owner := uuid.New()
	contactID := uuid.New()

	mock.ExpectQuery(`UPDATE contacts`).
		WithArgs("Marie", "Curie", "0123456789", pgxmock.AnyArg(), contactID, owner).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Update(context.Background(), owner, contactID, ContactFields{
		FirstName: "Marie",
		LastName:  "Curie",
		Phone:     "0123456789",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsDelete_Success(t *testing.T) {
	repo, mock := newContactsWithMock(t)
	owner := uuid.New()
	contactID := uuid.New()

	mock.ExpectExec(`DELETE FROM contacts WHERE id = \$1 AND user_id = \$2`).
		WithArgs(contactID, owner).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), owner, contactID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsDelete_NoRowsAffected(t *testing.T) {
	repo, mock := newContactsWithMock(t)
	owner := uuid.New()
	contactID := uuid.New()

	mock.ExpectExec(`DELETE FROM contacts WHERE id = \$1 AND user_id = \$2`).
		WithArgs(contactID, owner).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), owner, contactID), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsSearch_CaseInsensitivePattern(t *testing.T) {
	repo, mock := newContactsWithMock(t)
	owner := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM contacts\s+WHERE user_id = \$1\s+AND \(first_name ILIKE \$2 OR last_name ILIKE \$2 OR phone ILIKE \$2 OR email ILIKE \$2\)\s+ORDER BY last_name, first_name`).
		WithArgs(owner, "%cur%").
		WillReturnRows(pgxmock.NewRows(contactColumns).
			AddRow(uuid.New(), owner, "Marie", "Curie", "0123456789", strptr("marie@example.com"), now))

	contacts, err := repo.Search(context.Background(), owner, "cur")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Curie", contacts[0].LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
