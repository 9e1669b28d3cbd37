package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Registers a fixed set of demo accounts. Accounts that already exist are skipped.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == config.Production {
		log.Fatal("Refusing to seed test users in production")
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

	password := os.Getenv("TEST_USER_PASSWORD")
	if password == "" {
		password = "testpassword123"
	}

	testUsers := []types.RegisterRequest{
		{Email: "john.doe@example.com", Username: "johndoe", FirstName: "John", LastName: "Doe"},
		{Email: "jane.smith@example.com", Username: "janesmith", FirstName: "Jane", LastName: "Smith"},
		{Email: "bob.wilson@example.com", Username: "bobwilson", FirstName: "Bob", LastName: "Wilson"},
		{Email: "alice.cooper@example.com", Username: "alicecooper", FirstName: "Alice", LastName: "Cooper"},
	}

	users := service.NewUserService(db, appLog)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	created := 0
	for _, u := range testUsers {
		u.Password = password
		if _, err := users.Register(ctx, &u); err != nil {
			if appErr, ok := apperr.As(err); ok && appErr.Has("email") {
				appLog.Info("Test user already exists", "email", u.Email)
				continue
			}
			appLog.Fatal("Failed to create test user", "email", u.Email, "error", err)
		}
		created++
	}
	appLog.Info("Seeded test users", "created", created, "total", len(testUsers))
}
