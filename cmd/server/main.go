package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	httpapi "motorent-backend/internal/api/http"
	"motorent-backend/internal/config"
	"motorent-backend/internal/eventcache"
	"motorent-backend/internal/gateway"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/pricing"
	"motorent-backend/internal/repository/postgres"
	"motorent-backend/internal/security"
	"motorent-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Motorent Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)
	authMW := httpapi.NewAuthMiddleware(tokenManager)

	// Initialize Payment Gateway
	gw := gateway.NewHTTPGateway(
		cfg.Payments.APIBaseURL,
		cfg.Payments.APIKey,
		cfg.Server.BaseURL,
		time.Duration(cfg.Payments.StatusTimeoutSeconds)*time.Second,
	)

	// Initialize Webhook Event Cache
	events, err := eventcache.New(
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Redis.EventTTLHours)*time.Hour,
	)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer events.Close()
	logger.Info("Redis connection established", "addr", cfg.Redis.Addr)

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
		cfg.Payments.Currency,
	)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository)
	rentalSvc := service.NewRentalService(store, store.RentalRepository, store.VehicleRepository, pricing.SystemClock())
	paymentSvc := service.NewPaymentService(store, store.RentalRepository, store.UserRepository, gw, emailSvc, cfg.Payments.Currency)

	// Initialize HTTP handlers
	authHandler := httpapi.NewAuthHandler(authSvc)
	userHandler := httpapi.NewUserHandler(userSvc)
	vehicleHandler := httpapi.NewVehicleHandler(vehicleSvc)
	rentalHandler := httpapi.NewRentalHandler(rentalSvc)
	paymentHandler := httpapi.NewPaymentHandler(paymentSvc, events, cfg.Payments.WebhookSecret)

	router := httpapi.NewRouter(authMW, authHandler, userHandler, vehicleHandler, rentalHandler, paymentHandler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
