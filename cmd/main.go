// @title Contacts Backend API
// @version 1.0
// @description Contact management API with JWT authentication

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	_ "CONTACTS_BACK-END/docs" // This is required for swagger
	"CONTACTS_BACK-END/internal/config"
	"CONTACTS_BACK-END/internal/handlers"
	"CONTACTS_BACK-END/internal/logging"
	"CONTACTS_BACK-END/internal/middleware"
	"CONTACTS_BACK-END/internal/repository"
	"CONTACTS_BACK-END/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger level comes from config, so fall back to a default logger here
		logging.New("info").Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		logger.Error("parse dsn", "error", err)
		os.Exit(1)
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "contacts-backend"
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.Itoa(int(cfg.Database.QueryTimeout.Milliseconds()))
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Error("connect", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Boot checks: connectivity, then schema
	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnTimeout)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("ping", "error", err)
			os.Exit(1)
		}
		if err := repository.RunMigrations(ctx, cfg.GetDSN()); err != nil {
			logger.Error("migrate", "error", err)
			os.Exit(1)
		}
	}

	// Repositories and handlers
	users := repository.NewPostgresUsers(pool)
	contacts := repository.NewPostgresContacts(pool)

	auth := middleware.NewAuth(users, &cfg.JWT, logger)
	authHandler := handlers.NewAuthHandler(users, &cfg.JWT, logger)
	contactsHandler := handlers.NewContactsHandler(contacts, logger)
	healthHandler := handlers.NewHealthHandler(pool)

	mux := routes.SetupRoutes(auth, authHandler, contactsHandler, healthHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      c.Handler(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ListenAndServe", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for SIGINT, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	logger.Info("server stopped")
}
