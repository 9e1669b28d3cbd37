package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Input files are JSON arrays, e.g.
//
//	[{"name": "flour", "measurement_unit": "g"}]
//	[{"name": "Breakfast", "color": "#E26C2D", "slug": "breakfast"}]
func main() {
	ingredientsFile := flag.String("ingredients", "", "JSON file with ingredients")
	tagsFile := flag.String("tags", "", "JSON file with tags")
	flag.Parse()

	if *ingredientsFile == "" && *tagsFile == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	catalog := service.NewCatalogService(db, appLog)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *ingredientsFile != "" {
		var ingredients []models.Ingredient
		if err := readJSON(*ingredientsFile, &ingredients); err != nil {
			appLog.Fatal("Failed to read ingredients", "error", err)
		}
		if _, err := catalog.SeedIngredients(ctx, ingredients); err != nil {
			appLog.Fatal("Failed to seed ingredients", "error", err)
		}
	}

	if *tagsFile != "" {
		var tags []models.Tag
		if err := readJSON(*tagsFile, &tags); err != nil {
			appLog.Fatal("Failed to read tags", "error", err)
		}
		if _, err := catalog.SeedTags(ctx, tags); err != nil {
			appLog.Fatal("Failed to seed tags", "error", err)
		}
	}
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
