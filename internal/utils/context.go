package utils

import (
	"context"

	"CONTACTS_BACK-END/internal/models"
)

type contextKey string

const userContextKey contextKey = "authenticated_user"

// WithUser returns a context carrying the authenticated user resolved by
// the auth middleware.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user stored by the auth
// middleware, or false when the request was not authenticated.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}
