package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/fatali-fataliyev/expense_tracker/internal/config"
	"github.com/fatali-fataliyev/expense_tracker/logging"
	"github.com/go-sql-driver/mysql"
)

const (
	connectAttempts = 15
	connectBackoff  = 3 * time.Second
)

type MySQLStorage struct {
	sqlStorage
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{sqlStorage: newSQLStorage(db, mysqlQueries, "MySQL")}
}

// mysqlConfig builds the driver config from FULL_DSN or the DB_* variables.
// parseTime, UTC location and session time_zone are always forced so DATETIME columns scan into UTC time.Time values.
func mysqlConfig(cfg config.Config) (*mysql.Config, error) {
	var dsnCfg *mysql.Config
	if cfg.FullDSN != "" {
		parsed, err := mysql.ParseDSN(cfg.FullDSN)
		if err != nil {
			return nil, fmt.Errorf("invalid FULL_DSN: %w", err)
		}
		dsnCfg = parsed
	} else {
		if cfg.DBUser == "" || cfg.DBPass == "" || cfg.DBHost == "" || cfg.DBPort == "" {
			return nil, fmt.Errorf("missing required DB environment variables")
		}
		dsnCfg = mysql.NewConfig()
		dsnCfg.User = cfg.DBUser
		dsnCfg.Passwd = cfg.DBPass
		dsnCfg.Net = "tcp"
		dsnCfg.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
		dsnCfg.DBName = cfg.DBName
	}
	if dsnCfg.DBName == "" {
		dsnCfg.DBName = cfg.DBName
	}
	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.UTC
	if dsnCfg.Params == nil {
		dsnCfg.Params = make(map[string]string)
	}
	dsnCfg.Params["time_zone"] = "'+00:00'"
	return dsnCfg, nil
}

func pingWithRetry(ctx context.Context, db *sql.DB) error {
	for i := 0; i < connectAttempts; i++ {
		if err := db.PingContext(ctx); err == nil {
			return nil
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/%d)", i+1, connectAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	return fmt.Errorf("database unreachable after multiple attempts")
}

// InitMySQL creates the database if needed, connects to it and applies pending migrations.
func InitMySQL(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	dsnCfg, err := mysqlConfig(cfg)
	if err != nil {
		return nil, err
	}
	dbname := dsnCfg.DBName

	adminCfg := dsnCfg.Clone()
	adminCfg.DBName = ""

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %w", err)
	}
	defer adminDb.Close()

	if err := pingWithRetry(ctx, adminDb); err != nil {
		return nil, err
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRowContext(ctx, checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if err == sql.ErrNoRows {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.ExecContext(ctx, createDbSql); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %w", err)
	}

	logging.Logger.Info("Connecting to database...")
	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %w", err)
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(ctx, db, mysqlDialect, cfg.MigrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
