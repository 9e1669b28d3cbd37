package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logger"
)

const rollbackSuffix = "_rollback.sql"

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatal("DATABASE_URL is not set and configuration is invalid", "error", err)
		}
		dsn = cfg.DSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		log.Fatal("Failed to create migrations table", "error", err)
	}

	if *rollback {
		name, err := rollbackLast(db, *migrationsDir)
		if err != nil {
			log.Fatal("Rollback failed", "error", err)
		}
		log.Info("Rolled back migration", "name", name)
		return
	}

	applied, err := applyPending(db, *migrationsDir, log)
	if err != nil {
		log.Fatal("Migration failed", "error", err)
	}
	log.Info("All migrations applied", "applied", applied)
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func applyPending(db *sql.DB, dir string, log *logger.Logger) (int, error) {
	names, err := migrationFiles(dir)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, name := range names {
		var exists bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations WHERE name = $1)", name).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if exists {
			log.Debug("Migration already applied", "name", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		err = inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
			_, err := tx.Exec("INSERT INTO migrations (name) VALUES ($1)", name)
			return err
		})
		if err != nil {
			return applied, err
		}
		log.Info("Applied migration", "name", name)
		applied++
	}
	return applied, nil
}

func rollbackLast(db *sql.DB, dir string) (string, error) {
	var name string
	err := db.QueryRow("SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.New("no migrations to rollback")
	}
	if err != nil {
		return "", fmt.Errorf("find last migration: %w", err)
	}

	path := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+rollbackSuffix)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read rollback file: %w", err)
	}

	err = inTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(content)); err != nil {
			return fmt.Errorf("execute rollback: %w", err)
		}
		_, err := tx.Exec("DELETE FROM migrations WHERE name = $1", name)
		return err
	})
	return name, err
}

func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
