package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"CONTACTS_BACK-END/internal/models"
)

// Users is the storage contract for user accounts
type Users interface {
	Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDAndEmail(ctx context.Context, id uuid.UUID, email string) (*models.User, error)
}

// PostgresUsers is a Users implementation backed by PostgreSQL
type PostgresUsers struct {
	db DB
}

// NewPostgresUsers creates a new PostgresUsers bound to db
func NewPostgresUsers(db DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

// Create inserts a new user. The id and creation time are assigned here;
// a duplicate email yields ErrDuplicateEmail.
func (r *PostgresUsers) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if uniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// GetByEmail returns the user registered under email, including the stored
// password hash for credential verification.
func (r *PostgresUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, password_hash, created_at
		 FROM users WHERE email = $1`,
		email).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}

	return &user, nil
}

// GetByIDAndEmail returns the user only when both id and email match the
// current row. Token claims are checked against the store jointly so a stale
// or tampered token never resolves to an account.
func (r *PostgresUsers) GetByIDAndEmail(ctx context.Context, id uuid.UUID, email string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, created_at
		 FROM users WHERE id = $1 AND email = $2`,
		id, email).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user by id and email: %w", err)
	}

	return &user, nil
}
