// Package main is the entry point for the account service.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/freshcart-app/account-service/internal/config"
	"github.com/freshcart-app/account-service/internal/handlers"
	"github.com/freshcart-app/account-service/internal/metrics"
	"github.com/freshcart-app/account-service/internal/provider"
	"github.com/freshcart-app/account-service/internal/repository"
	"github.com/freshcart-app/account-service/internal/routes"
	"github.com/freshcart-app/account-service/internal/service"
	"github.com/freshcart-app/account-service/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// @title FreshCart Account Service API
// @version 1.0
// @description Account provisioning, session, and rider approval service
// @host localhost:8085
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Structured JSON logs
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Load configuration; missing required values are fatal here,
	// never per-request.
	cfg := config.Load()

	// Initialize database
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Initialize repository and provider client
	userRepo := repository.NewUserRepository(db)
	providerClient := provider.NewHTTPClient(cfg.AuthProviderURL, cfg.AuthProviderKey)

	// Initialize services
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	if err != nil {
		log.Fatal("Failed to initialize JWT service:", err)
	}
	accountService := service.NewAccountService(
		userRepo, providerClient, jwtService, redisClient,
		collector, slog.Default(), cfg.JWTRefreshExpiry,
	)
	approvalService := service.NewApprovalService(userRepo, collector)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService)
	adminHandler := handlers.NewAdminHandler(approvalService)

	// Setup router
	router := gin.Default()
	routes.Setup(router, authHandler, adminHandler, jwtService, registry)

	// Start server
	slog.Info("starting account service", slog.String("port", cfg.Port))
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
