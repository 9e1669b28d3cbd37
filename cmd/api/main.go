package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.Open(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, appLog); err != nil {
		appLog.Fatal("Failed to run migrations", "error", err)
	}

	// Continue without redis if it is not reachable
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg, appLog)
		if err != nil {
			appLog.Warn("Failed to connect to Redis", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	store, err := newMediaStore(cfg)
	if err != nil {
		appLog.Fatal("Failed to set up media storage", "driver", cfg.MediaDriver, "error", err)
	}

	srv := server.New(cfg, router.SetupRouter(router.Dependencies{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Store:  store,
		Log:    appLog,
	}), appLog)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			appLog.Fatal("Server error", "error", err)
		}
	case sig := <-quit:
		appLog.Info("Received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("Server shutdown error", "error", err)
	}
	appLog.Info("Server stopped")
}

func newMediaStore(cfg *config.Config) (media.Store, error) {
	if cfg.MediaDriver != "s3" {
		return media.NewDiskStore(cfg.MediaRoot, cfg.MediaBaseURL), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return media.NewS3Store(s3cfg), nil
}
