package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fatali-fataliyev/expense_tracker/internal/config"
	"github.com/fatali-fataliyev/expense_tracker/logging"
	_ "github.com/lib/pq"
)

type PostgresStorage struct {
	sqlStorage
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{sqlStorage: newSQLStorage(db, postgresQueries, "PostgreSQL")}
}

// InitPostgres connects to POSTGRES_URL and applies pending migrations.
func InitPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("missing required POSTGRES_URL environment variable")
	}

	logging.Logger.Info("Connecting to PostgreSQL...")
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres handle: %w", err)
	}

	if err := pingWithRetry(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(ctx, db, postgresDialect, cfg.MigrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
