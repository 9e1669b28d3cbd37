package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		Env:        config.Test,
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "foodgram.db"),
	}
	log := logger.NewNop()

	db, err := database.Open(cfg, log)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, "does-not-matter", log))
	require.NoError(t, database.HealthCheck(context.Background(), db))

	for _, table := range []string{"users", "ingredients", "tags", "recipes", "recipe_tags", "ingredient_lines", "favorites", "shopping_carts", "subscriptions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// Running again is a no-op.
	require.NoError(t, database.RunMigrations(db, "does-not-matter", log))

	require.NoError(t, db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error)
	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	cfg := &config.Config{RedisURL: "not a url"}
	_, err := database.NewRedisClient(cfg, logger.NewNop())
	assert.Error(t, err)
}
