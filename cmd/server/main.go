package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"theraplay-backend/internal/config"
	"theraplay-backend/internal/database"
	"theraplay-backend/internal/handlers"
	"theraplay-backend/internal/logger"
	"theraplay-backend/internal/middleware"
	"theraplay-backend/internal/repository"
	"theraplay-backend/internal/router"
	"theraplay-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()
	log.Info("starting TheraPlay backend", zap.String("env", cfg.Env))

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()
	log.Info("postgres connected")

	// ──── Step 3: Initialize Redis Client ────
	rdb, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("redis connected")

	// ──── Step 4: Run Database Migrations ────
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.RunMigrations(migrateCtx, pool, cfg.MigrationsDir); err != nil {
		cancelMigrate()
		log.Fatal("database migration failed", zap.Error(err))
	}
	cancelMigrate()
	log.Info("database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	profileRepo := repository.NewProfileRepo(pool)
	activityRepo := repository.NewActivityRepo(pool)
	purchaseRepo := repository.NewPurchaseRepo(pool)
	reviewRepo := repository.NewReviewRepo(pool)

	// ──── Initialize Services ────
	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	profileService := services.NewProfileService(userRepo, profileRepo)
	authService := services.NewAuthService(userRepo, hasher, profileService)
	activityService := services.NewActivityService(activityRepo)
	purchaseService := services.NewPurchaseService(purchaseRepo, activityRepo)
	reviewService := services.NewReviewService(reviewRepo, userRepo)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(profileService)
	activityHandler := handlers.NewActivityHandler(activityService)
	marketplaceHandler := handlers.NewMarketplaceHandler(activityService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	authLimiter := middleware.NewRateLimiter(rdb, 10, time.Minute)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(
		authHandler,
		userHandler,
		activityHandler,
		marketplaceHandler,
		purchaseHandler,
		reviewHandler,
		authLimiter,
		log,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info("server listening", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
