package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents a single entry in a user's contact list.
// Every contact belongs to exactly one owner; OwnerID is never
// taken from client input.
type Contact struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"user_id" db:"user_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
