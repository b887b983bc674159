package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/be9expensphie/expensphie/internal/infra/postgres"
	infraRedis "github.com/be9expensphie/expensphie/internal/infra/redis"
	"github.com/be9expensphie/expensphie/internal/platform/dashboard"
	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/internal/platform/household"
	"github.com/be9expensphie/expensphie/internal/platform/settlement"
	"github.com/be9expensphie/expensphie/internal/platform/user"
	"github.com/be9expensphie/expensphie/internal/transport/httpapi"
	"github.com/be9expensphie/expensphie/internal/transport/httpapi/handler"
	"github.com/be9expensphie/expensphie/internal/transport/httpapi/middleware"
	"github.com/be9expensphie/expensphie/pkg/config"
	"github.com/be9expensphie/expensphie/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting Expensphie API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for session storage
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db.Pool)
	householdRepo := postgres.NewHouseholdRepository(db.Pool)
	expenseRepo := postgres.NewExpenseRepository(db.Pool)
	settlementRepo := postgres.NewSettlementRepository(db.Pool)
	sessionStore := infraRedis.NewSessionStore(redisClient, log)

	// Initialize services
	userSvc := user.NewService(userRepo)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret, cfg.JWTLifetime)
	householdSvc := household.NewService(householdRepo, sessionStore)
	expenseSvc := expense.NewService(expenseRepo, householdSvc)
	settlementSvc := settlement.NewService(settlementRepo, expenseRepo, householdSvc)
	dashboardSvc := dashboard.NewService(expenseSvc, householdSvc)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(userSvc, jwtSvc)
	householdHandler := handler.NewHouseholdHandler(householdSvc)
	expenseHandler := handler.NewExpenseHandler(expenseSvc)
	settlementHandler := handler.NewSettlementHandler(settlementSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	healthHandler := handler.NewHealthHandler(db)

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:            log,
		AllowedOrigins:    strings.Split(cfg.AllowedOrigins, ","),
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
		AuthHandler:       authHandler,
		HouseholdHandler:  householdHandler,
		ExpenseHandler:    expenseHandler,
		SettlementHandler: settlementHandler,
		DashboardHandler:  dashboardHandler,
		HealthHandler:     healthHandler,
		JWTMiddleware:     middleware.JWTMiddleware(jwtSvc),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
