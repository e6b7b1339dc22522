package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatali-fataliyev/expense_tracker/logging"
)

type dialect struct {
	name               string
	migrationTableSQL  string
	lastMigrationSQL   string
	insertMigrationSQL string
}

var mysqlDialect = dialect{
	name: "mysql",
	migrationTableSQL: `CREATE TABLE IF NOT EXISTS migration (
        id INT AUTO_INCREMENT PRIMARY KEY,
        migration_name VARCHAR(255) NOT NULL UNIQUE,
        applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`,
	lastMigrationSQL:   "SELECT migration_name FROM migration ORDER BY migration_name DESC LIMIT 1",
	insertMigrationSQL: "INSERT INTO migration (migration_name) VALUES (?)",
}

var postgresDialect = dialect{
	name: "postgres",
	migrationTableSQL: `CREATE TABLE IF NOT EXISTS migration (
        id SERIAL PRIMARY KEY,
        migration_name VARCHAR(255) NOT NULL UNIQUE,
        applied_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
    );`,
	lastMigrationSQL:   "SELECT migration_name FROM migration ORDER BY migration_name DESC LIMIT 1",
	insertMigrationSQL: "INSERT INTO migration (migration_name) VALUES ($1)",
}

// runMigrations applies every <dir>/<dialect>/*.sql file newer than the last recorded one, in name order.
func runMigrations(ctx context.Context, db *sql.DB, d dialect, dir string) error {
	migrationsDir := filepath.Join(dir, d.name)
	migrationFiles, err := getMigrationFiles(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to get migration files: %w", err)
	}

	lastAppliedMigration, err := getLastAppliedMigration(ctx, db, d)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration name: %w", err)
	}

	newMigrations := filterNewMigrations(migrationFiles, lastAppliedMigration)

	if len(newMigrations) == 0 {
		logging.Logger.Info("no new migration")
		return nil
	}

	for _, migrationFile := range newMigrations {
		logging.Logger.Info("applying migration: ", migrationFile)
		migrationContent, err := os.ReadFile(filepath.Join(migrationsDir, migrationFile))
		if err != nil {
			return fmt.Errorf("failed to read this '%s' migration file, error: %w", migrationFile, err)
		}

		if err := applyMigration(ctx, db, d, migrationFile, string(migrationContent)); err != nil {
			return fmt.Errorf("failed to apply this '%s' migration file, error: %w", migrationFile, err)
		}
	}

	logging.Logger.Info("all migrations applied successfully")
	return nil
}

func getMigrationFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)
	return migrationFiles, nil
}

func getLastAppliedMigration(ctx context.Context, db *sql.DB, d dialect) (string, error) {
	if _, err := db.ExecContext(ctx, d.migrationTableSQL); err != nil {
		return "", err
	}

	var lastMigration string
	err := db.QueryRowContext(ctx, d.lastMigrationSQL).Scan(&lastMigration)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return lastMigration, err
}

func filterNewMigrations(all []string, lastApplied string) []string {
	if lastApplied == "" {
		return all
	}

	var result []string
	for _, migration := range all {
		if migration > lastApplied {
			result = append(result, migration)
		}
	}
	return result
}

// splitStatements splits a migration file on ';', dropping blank statements.
func splitStatements(sqlContent string) []string {
	var statements []string
	for _, statement := range strings.Split(sqlContent, ";") {
		if trimmed := strings.TrimSpace(statement); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}
	return statements
}

func applyMigration(ctx context.Context, db *sql.DB, d dialect, name, sqlContent string) error {
	txn, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	for _, statement := range splitStatements(sqlContent) {
		if _, err := txn.ExecContext(ctx, statement); err != nil {
			txn.Rollback()
			return fmt.Errorf("migration statement failed: %w\nStatement: %s", err, statement)
		}
	}

	if _, err := txn.ExecContext(ctx, d.insertMigrationSQL, name); err != nil {
		txn.Rollback()
		return fmt.Errorf("failed to record migration name: %w", err)
	}

	return txn.Commit()
}
