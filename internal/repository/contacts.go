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

// ContactFields carries the mutable fields of a contact. Create and the
// full-overwrite Update both take the complete set.
type ContactFields struct {
	FirstName string
	LastName  string
	Phone     string
	Email     *string
}

// Contacts is the storage contract for contact records. Every operation is
// scoped by ownerID; a contact is never visible to any other identity.
type Contacts interface {
	List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]models.Contact, error)
	Get(ctx context.Context, ownerID, contactID uuid.UUID) (*models.Contact, error)
	Create(ctx context.Context, ownerID uuid.UUID, fields ContactFields) (*models.Contact, error)
	Update(ctx context.Context, ownerID, contactID uuid.UUID, fields ContactFields) (*models.Contact, error)
	Delete(ctx context.Context, ownerID, contactID uuid.UUID) error
	Search(ctx context.Context, ownerID uuid.UUID, query string) ([]models.Contact, error)
}

// PostgresContacts is a Contacts implementation backed by PostgreSQL
type PostgresContacts struct {
	db DB
}

// NewPostgresContacts creates a new PostgresContacts bound to db
func NewPostgresContacts(db DB) *PostgresContacts {
	return &PostgresContacts{db: db}
}

// List returns the owner's contacts, newest first, bounded by skip/limit
func (r *PostgresContacts) List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]models.Contact, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, first_name, last_name, phone, email, created_at
		 FROM contacts WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// Get returns a single contact owned by ownerID, or ErrNotFound
func (r *PostgresContacts) Get(ctx context.Context, ownerID, contactID uuid.UUID) (*models.Contact, error) {
	var c models.Contact
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, first_name, last_name, phone, email, created_at
		 FROM contacts WHERE id = $1 AND user_id = $2`,
		contactID, ownerID).Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName,
		&c.Phone, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select contact: %w", err)
	}

	return &c, nil
}

// Create inserts a new contact for ownerID, assigning id and created_at
func (r *PostgresContacts) Create(ctx context.Context, ownerID uuid.UUID, fields ContactFields) (*models.Contact, error) {
	c := &models.Contact{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		Phone:     fields.Phone,
		Email:     fields.Email,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO contacts (id, user_id, first_name, last_name, phone, email, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.OwnerID, c.FirstName, c.LastName, c.Phone, c.Email, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	return c, nil
}

// Update replaces every mutable field of the contact. Ownership check and
// write happen in one statement, so a concurrent delete leaves this side
// with ErrNotFound instead of resurrecting the row.
func (r *PostgresContacts) Update(ctx context.Context, ownerID, contactID uuid.UUID, fields ContactFields) (*models.Contact, error) {
	var c models.Contact
	err := r.db.QueryRow(ctx,
		`UPDATE contacts
		 SET first_name = $1, last_name = $2, phone = $3, email = $4
		 WHERE id = $5 AND user_id = $6
		 RETURNING id, user_id, first_name, last_name, phone, email, created_at`,
		fields.FirstName, fields.LastName, fields.Phone, fields.Email,
		contactID, ownerID).Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName,
		&c.Phone, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}

	return &c, nil
}

// Delete removes the contact when it exists and belongs to ownerID
func (r *PostgresContacts) Delete(ctx context.Context, ownerID, contactID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM contacts WHERE id = $1 AND user_id = $2`,
		contactID, ownerID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Search returns the owner's contacts whose first name, last name, phone or
// email contains query, case-insensitively, ordered by (last_name, first_name).
// The minimum query length is enforced at the handler boundary.
func (r *PostgresContacts) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]models.Contact, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, first_name, last_name, phone, email, created_at
		 FROM contacts
		 WHERE user_id = $1
		 AND (first_name ILIKE $2 OR last_name ILIKE $2 OR phone ILIKE $2 OR email ILIKE $2)
		 ORDER BY last_name, first_name`,
		ownerID, pattern)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func scanContacts(rows pgx.Rows) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName,
			&c.Phone, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, nil
}
