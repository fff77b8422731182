package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"CONTACTS_BACK-END/internal/config"
	"CONTACTS_BACK-END/internal/dto"
	"CONTACTS_BACK-END/internal/middleware"
	"CONTACTS_BACK-END/internal/models"
	"CONTACTS_BACK-END/internal/repository"
	"CONTACTS_BACK-END/internal/utils"
)

// loginFailedMessage is identical for unknown email and wrong password
const loginFailedMessage = "incorrect email or password"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users  repository.Users
	jwtCfg *config.JWTConfig
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users repository.Users, jwtCfg *config.JWTConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwtCfg: jwtCfg, logger: logger}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account with name, email, and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.UserResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if msg := validateName(req.FirstName, "first_name"); msg != "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", msg)
		return
	}
	if msg := validateName(req.LastName, "last_name"); msg != "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", msg)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "email must be a valid address")
		return
	}
	if len(req.Password) < 6 || len(req.Password) > 100 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "password must be between 6 and 100 characters")
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to hash password", err.Error())
		return
	}

	user, err := h.users.Create(r.Context(), req.FirstName, req.LastName, req.Email, string(hashedPassword))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Email already registered", "An account with this email already exists")
			return
		}
		h.logger.Error("create user failed", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", "Database error")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	utils.WriteJSONResponse(w, http.StatusCreated, toUserResponse(user))
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with email and password, returns a bearer token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "email and password are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", loginFailedMessage)
			return
		}
		h.logger.Error("login lookup failed", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Login failed", "Database error")
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", loginFailedMessage)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.jwtCfg)
	if err != nil {
		h.logger.Error("token generation failed", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", "Token error")
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	})
}

// Me returns the current user's profile
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "User profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID.String(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func validateName(value, field string) string {
	// Bounds count characters, not bytes
	if value == "" || utf8.RuneCountInString(value) > 50 {
		return field + " must be between 1 and 50 characters"
	}
	return ""
}
