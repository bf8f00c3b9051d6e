package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Environment.LogMode(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: cfg.OTelServiceName,
		Environment: string(cfg.Environment),
		Endpoint:    cfg.OTelEndpoint,
		Insecure:    cfg.OTelInsecure,
		SampleRatio: cfg.OTelSampleRatio,
	}, appLog)
	if err != nil {
		appLog.Fatal("failed to initialize tracing", "error", err)
	}

	db, err := database.New(ctx, cfg, appLog)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	if err := database.RunMigrations(ctx, db, cfg.MigrationsDir, appLog); err != nil {
		appLog.Fatal("failed to run migrations", "error", err)
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		appLog.Fatal("failed to configure image storage", "error", err)
	}

	// Redis backs token revocation and rate limiting; both degrade without it
	redisClient, err := database.NewRedisClient(ctx, cfg, appLog)
	if err != nil {
		appLog.Warn("redis unavailable, logout and rate limiting are disabled", "error", err)
		redisClient = nil
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, appLog)
	healthChecks := map[string]api.HealthChecker{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}
	var creationLimiter *middleware.RateLimiter
	if redisClient != nil {
		authService.WithRevocationStore(redisClient)
		creationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreationLimit, cfg.RecipeCreationWindow, appLog)
		healthChecks["redis"] = redisHealthCheck(redisClient)
	}

	handler := router.SetupRouter(cfg, api.Services{
		Auth:            authService,
		Users:           service.NewUserService(db, appLog),
		Catalog:         service.NewCatalogService(db, appLog),
		Recipes:         service.NewRecipeService(db, service.NewS3ImageStore(s3Config, appLog), appLog),
		Favorites:       service.NewFavoriteService(db, appLog),
		ShoppingCart:    service.NewShoppingCartService(db, appLog),
		ShoppingList:    service.NewShoppingListService(db, appLog),
		CreationLimiter: creationLimiter,
		HealthChecks:    healthChecks,
	}, appLog)

	srv := server.New(cfg, handler, appLog)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			appLog.Error("server error", "error", err)
		}
	case sig := <-quit:
		appLog.Info("received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown error", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLog.Warn("tracing shutdown error", "error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	appLog.Info("server stopped")
}

func redisHealthCheck(client *redis.Client) api.HealthChecker {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
