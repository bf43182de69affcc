package main

import (
	"context"
	"log"
	"time"

	"media-review/cmd"
	"media-review/internal/data/repository"
	"media-review/internal/mailer"
	"media-review/internal/wire"
	"media-review/pkg/database"
	"media-review/pkg/ratelimit"
	"media-review/pkg/token"
	"media-review/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Outgoing mail
	mail, err := mailer.New(config.Email, logger)
	if err != nil {
		logger.Fatal("Failed to init mailer", zap.Error(err))
	}
	if closer, ok := mail.(interface{ Close() }); ok {
		defer closer.Close()
	}
	dispatcher := mailer.NewDispatcher(mail, time.Duration(config.Email.TimeoutSeconds)*time.Second, logger)

	deps := wire.Dependencies{
		DB:      db,
		Tokens:  token.NewJWTService(config.JWT.Secret, time.Duration(config.JWT.ExpiryHours)*time.Hour),
		Mail:    dispatcher,
		Limiter: newLimiter(config.RateLimit, logger),
	}
	if stopper, ok := deps.Limiter.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}

	// Wire all dependencies
	app := wire.Wiring(repos, deps, config, logger)

	// Start server
	shutdownTimeout := time.Duration(config.App.ShutdownTimeoutSeconds) * time.Second
	if err := cmd.APIServer(app.Router, config.App.Port, shutdownTimeout, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}

	// Let queued confirmation emails finish before exiting
	dispatcher.Wait()
	logger.Info("Server stopped")
}

// newLimiter prefers Redis so replicas share counters and falls back to an
// in-process limiter when Redis is not configured or unreachable.
func newLimiter(config utils.RateLimitConfig, logger *zap.Logger) ratelimit.Limiter {
	if !config.Enabled {
		return nil
	}

	window := time.Duration(config.WindowSeconds) * time.Second

	if config.RedisAddr != "" {
		client, err := ratelimit.NewRedisClient(context.Background(), config.RedisAddr, config.RedisPassword, config.RedisDB)
		if err == nil {
			logger.Info("Rate limiter using redis", zap.String("addr", config.RedisAddr))
			return ratelimit.NewRedis(client, config.Requests, window)
		}
		logger.Warn("Redis unavailable, using in-memory rate limiter", zap.Error(err))
	}

	return ratelimit.NewMemory(config.Requests, window)
}
