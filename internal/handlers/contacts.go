package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"CONTACTS_BACK-END/internal/dto"
	"CONTACTS_BACK-END/internal/models"
	"CONTACTS_BACK-END/internal/repository"
	"CONTACTS_BACK-END/internal/utils"
)

const (
	contactsPrefix = "/api/contacts/"
	searchPrefix   = "search/"
	defaultLimit   = 100
	minQueryLength = 2
)

// ContactsHandler manages the per-user contact list endpoints. The owner id
// for every operation comes from the authenticated user in the request
// context, never from client input.
type ContactsHandler struct {
	contacts repository.Contacts
	logger   *slog.Logger
}

// NewContactsHandler creates a new ContactsHandler
func NewContactsHandler(contacts repository.Contacts, logger *slog.Logger) *ContactsHandler {
	return &ContactsHandler{contacts: contacts, logger: logger}
}

// Collection dispatches by HTTP method for /api/contacts
func (h *ContactsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item dispatches /api/contacts/{id} and /api/contacts/search/{query}
func (h *ContactsHandler) Item(w http.ResponseWriter, r *http.Request) {
	suffix := strings.TrimPrefix(r.URL.Path, contactsPrefix)
	if strings.HasPrefix(suffix, searchPrefix) {
		h.Search(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.Get(w, r)
	case http.MethodPut:
		h.Update(w, r)
	case http.MethodDelete:
		h.Delete(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// List handles GET /api/contacts with skip/limit pagination
// @Summary List contacts
// @Description List the authenticated user's contacts, newest first
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param skip query int false "rows to skip"
// @Param limit query int false "maximum rows to return (default 100)"
// @Success 200 {array} dto.ContactResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/contacts [get]
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	q := r.URL.Query()
	skip := 0
	limit := defaultLimit
	if v := strings.TrimSpace(q.Get("skip")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}

	contacts, err := h.contacts.List(r.Context(), user.ID, skip, limit)
	if err != nil {
		h.logger.Error("list contacts failed", "error", err, "user_id", user.ID)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Failed to list contacts")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toContactResponses(contacts))
}

// Create handles POST /api/contacts
// @Summary Create a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ContactRequest true "Contact payload"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/contacts [post]
func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	fields, ok := h.decodeContactFields(w, r)
	if !ok {
		return
	}

	contact, err := h.contacts.Create(r.Context(), user.ID, fields)
	if err != nil {
		h.logger.Error("create contact failed", "error", err, "user_id", user.ID)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Failed to create contact")
		return
	}

	h.logger.Info("contact created", "contact_id", contact.ID, "user_id", user.ID)
	utils.WriteJSONResponse(w, http.StatusCreated, toContactResponse(contact))
}

// Get handles GET /api/contacts/{id}
// @Summary Get a contact
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} dto.ContactResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/contacts/{id} [get]
func (h *ContactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	contactID, ok := h.contactIDFromPath(w, r)
	if !ok {
		return
	}

	contact, err := h.contacts.Get(r.Context(), user.ID, contactID)
	if err != nil {
		h.writeContactError(w, err, user.ID)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toContactResponse(contact))
}

// Update handles PUT /api/contacts/{id} with full-overwrite semantics:
// every field of the contact is replaced by the request payload.
// @Summary Update a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Param payload body dto.ContactRequest true "Contact payload"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/contacts/{id} [put]
func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	contactID, ok := h.contactIDFromPath(w, r)
	if !ok {
		return
	}

	fields, ok := h.decodeContactFields(w, r)
	if !ok {
		return
	}

	contact, err := h.contacts.Update(r.Context(), user.ID, contactID, fields)
	if err != nil {
		h.writeContactError(w, err, user.ID)
		return
	}

	h.logger.Info("contact updated", "contact_id", contact.ID, "user_id", user.ID)
	utils.WriteJSONResponse(w, http.StatusOK, toContactResponse(contact))
}

// Delete handles DELETE /api/contacts/{id}
// @Summary Delete a contact
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} dto.DeleteContactResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/contacts/{id} [delete]
func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	contactID, ok := h.contactIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.contacts.Delete(r.Context(), user.ID, contactID); err != nil {
		h.writeContactError(w, err, user.ID)
		return
	}

	h.logger.Info("contact deleted", "contact_id", contactID, "user_id", user.ID)
	utils.WriteJSONResponse(w, http.StatusOK, dto.DeleteContactResponse{Message: "Contact deleted"})
}

// Search handles GET /api/contacts/search/{query}
// @Summary Search contacts
// @Description Case-insensitive substring search over name, phone and email
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param query path string true "Search query (minimum 2 characters)"
// @Success 200 {array} dto.ContactResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/contacts/search/{query} [get]
func (h *ContactsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	query := strings.TrimPrefix(r.URL.Path, contactsPrefix+searchPrefix)
	if len(query) < minQueryLength {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "query must contain at least 2 characters")
		return
	}

	contacts, err := h.contacts.Search(r.Context(), user.ID, query)
	if err != nil {
		h.logger.Error("search contacts failed", "error", err, "user_id", user.ID)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Failed to search contacts")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toContactResponses(contacts))
}

// contactIDFromPath parses the contact id from the request path
func (h *ContactsHandler) contactIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, contactsPrefix), "/")
	contactID, err := uuid.Parse(raw)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "invalid contact id")
		return uuid.Nil, false
	}
	return contactID, true
}

// decodeContactFields decodes and validates the shared create/update payload
func (h *ContactsHandler) decodeContactFields(w http.ResponseWriter, r *http.Request) (repository.ContactFields, bool) {
	var req dto.ContactRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return repository.ContactFields{}, false
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)
	if msg := validateName(req.FirstName, "first_name"); msg != "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", msg)
		return repository.ContactFields{}, false
	}
	if msg := validateName(req.LastName, "last_name"); msg != "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", msg)
		return repository.ContactFields{}, false
	}
	if n := utf8.RuneCountInString(req.Phone); n < 10 || n > 20 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "phone must be between 10 and 20 characters")
		return repository.ContactFields{}, false
	}
	if req.Email != nil {
		if *req.Email == "" {
			req.Email = nil
		} else if _, err := mail.ParseAddress(*req.Email); err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "email must be a valid address")
			return repository.ContactFields{}, false
		}
	}

	return repository.ContactFields{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	}, true
}

// writeContactError maps repository errors to HTTP responses. ErrNotFound
// covers both a missing id and someone else's contact, with an identical body.
func (h *ContactsHandler) writeContactError(w http.ResponseWriter, err error, ownerID uuid.UUID) {
	if errors.Is(err, repository.ErrNotFound) {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", "Contact not found")
		return
	}
	h.logger.Error("contact operation failed", "error", err, "user_id", ownerID)
	utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Contact operation failed")
}

func toContactResponse(c *models.Contact) dto.ContactResponse {
	return dto.ContactResponse{
		ID:        c.ID.String(),
		OwnerID:   c.OwnerID.String(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toContactResponses(contacts []models.Contact) []dto.ContactResponse {
	out := make([]dto.ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, toContactResponse(&contacts[i]))
	}
	return out
}
