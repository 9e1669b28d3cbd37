package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
)

// AutoMigrate creates the schema from the gorm models. Used for sqlite.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Recipe{}, "Tags", &models.RecipeTag{}); err != nil {
		return fmt.Errorf("failed to set up recipe_tags join table: %w", err)
	}
	return db.AutoMigrate(models.All()...)
}

// RunMigrations executes all SQL migration files in the migrations directory.
// Files ending in _rollback.sql are rollbacks and are skipped here.
func RunMigrations(db *gorm.DB, migrationsDir string, log *logger.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		log.Info("Using GORM auto-migration for SQLite")
		return AutoMigrate(db)
	}

	// The join table must be registered on every connection, not only at migration time.
	if err := db.SetupJoinTable(&models.Recipe{}, "Tags", &models.RecipeTag{}); err != nil {
		return fmt.Errorf("failed to set up recipe_tags join table: %w", err)
	}

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	// Sort files by name to ensure correct order
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ".sql") || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}

		var count int64
		if err := db.Table("migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Debug("Skipping migration (already applied)", "name", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Info("Applied migration", "name", name)
	}

	return nil
}
