package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"CONTACTS_BACK-END/internal/config"
	"CONTACTS_BACK-END/internal/repository"
	"CONTACTS_BACK-END/internal/utils"
)

// credentialsMessage is the single message returned for every authentication
// failure. Callers must not be able to tell an expired token from a malformed
// one or from an unknown user.
const credentialsMessage = "cannot validate credentials"

// JWTClaims represents the claims in the JWT token
type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken generates a signed JWT for the given user
func GenerateToken(userID uuid.UUID, email string, cfg *config.JWTConfig) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ValidateToken validates a JWT and returns the claims. Validation is
// all-or-nothing: signature, expiry and both identity claims must check out.
func ValidateToken(tokenString string, cfg *config.JWTConfig) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenMalformed
	}
	if claims.UserID == uuid.Nil || claims.Email == "" {
		return nil, jwt.ErrTokenRequiredClaimMissing
	}

	return claims, nil
}

// Auth resolves bearer tokens to authenticated users
type Auth struct {
	users  repository.Users
	cfg    *config.JWTConfig
	logger *slog.Logger
}

// NewAuth creates a new Auth gate backed by the given users repository
func NewAuth(users repository.Users, cfg *config.JWTConfig, logger *slog.Logger) *Auth {
	return &Auth{users: users, cfg: cfg, logger: logger}
}

// Require validates the Authorization header, resolves the token's claims
// against the store, and passes the authenticated user to next via the
// request context. Every credential failure rejects with the same uniform
// 401; store errors surface as 500.
func (a *Auth) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", credentialsMessage)
			return
		}

		// Extract token from "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", credentialsMessage)
			return
		}

		claims, err := ValidateToken(tokenParts[1], a.cfg)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", credentialsMessage)
			return
		}

		// Both claims must match the current store row. Only a missing row
		// is an authentication failure; a store error is not the client's
		// fault and must not masquerade as a bad token.
		user, err := a.users.GetByIDAndEmail(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", credentialsMessage)
				return
			}
			a.logger.Error("user lookup failed", "error", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", "Failed to validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), user)))
	}
}
