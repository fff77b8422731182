package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"CONTACTS_BACK-END/internal/handlers"
	"CONTACTS_BACK-END/internal/middleware"
)

// SetupRoutes configures all application routes on a fresh mux
func SetupRoutes(auth *middleware.Auth, authHandler *handlers.AuthHandler, contactsHandler *handlers.ContactsHandler, healthHandler *handlers.HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check routes
	mux.HandleFunc("/healthz", healthHandler.HealthCheck)
	mux.HandleFunc("/livez", healthHandler.LivenessCheck)
	mux.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/me", auth.Require(authHandler.Me))

	// Contact routes (all owner-scoped, behind the auth gate)
	mux.HandleFunc("/api/contacts", auth.Require(contactsHandler.Collection))
	mux.HandleFunc("/api/contacts/", auth.Require(contactsHandler.Item))

	// API documentation
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("/", rootHandler)

	return mux
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Contacts backend is running."))
}
