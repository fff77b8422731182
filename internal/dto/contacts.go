package dto

// ContactRequest is the payload for creating a contact and for the
// full-overwrite update (PUT replaces every field).
type ContactRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=50"`
	Phone     string  `json:"phone" validate:"required,min=10,max=20"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ContactResponse represents contact data in API responses
type ContactResponse struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// DeleteContactResponse confirms a successful delete
type DeleteContactResponse struct {
	Message string `json:"message"`
}
