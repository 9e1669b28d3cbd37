// Package testdb starts a disposable postgres for integration tests.
package testdb

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
)

// TestDB wraps a test database instance
type TestDB struct {
	DB        *gorm.DB
	Config    *config.Config
	Container testcontainers.Container
}

// Close cleans up the test database
func (td *TestDB) Close() error {
	if td.Container != nil {
		return td.Container.Terminate(context.Background())
	}
	return nil
}

// MigrationsDir is the absolute path of the repository's SQL migrations.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// SetupTestDB starts postgres in a container and applies the SQL migrations.
func SetupTestDB(t *testing.T) *TestDB {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "foodgram",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	t.Setenv("ENV", "test")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", host)
	t.Setenv("DB_PORT", port.Port())
	t.Setenv("DB_USER", "test")
	t.Setenv("DB_PASSWORD", "test")
	t.Setenv("DB_NAME", "foodgram")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	log := logger.NewNop()
	db, err := database.Open(cfg, log)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, MigrationsDir(), log))

	testDB := &TestDB{
		DB:        db,
		Config:    cfg,
		Container: container,
	}

	t.Cleanup(func() {
		if err := testDB.Close(); err != nil {
			t.Logf("Error cleaning up test database: %v", err)
		}
	})

	return testDB
}
