package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatali-fataliyev/expense_tracker/internal/config"
	"github.com/fatali-fataliyev/expense_tracker/internal/item"
	"github.com/stretchr/testify/require"
)

func TestBuildFilteredQuery(t *testing.T) {
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.FixedZone("AZT", 4*60*60))
	to := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		q             sqlQueries
		filters       *item.ItemList
		expectedQuery string
		expectedArgs  []interface{}
	}{
		{
			name:          "MySQL - all",
			q:             mysqlQueries,
			filters:       &item.ItemList{IsAllNil: true, Limit: 3},
			expectedQuery: "SELECT id, `timestamp` FROM item WHERE 1 = 1 ORDER BY `timestamp` DESC, id ASC;",
			expectedArgs:  []interface{}{},
		},
		{
			name:          "MySQL - range and limit",
			q:             mysqlQueries,
			filters:       &item.ItemList{From: from, To: to, Limit: 10},
			expectedQuery: "SELECT id, `timestamp` FROM item WHERE 1 = 1 AND `timestamp` >= ? AND `timestamp` <= ? ORDER BY `timestamp` DESC, id ASC LIMIT ?;",
			expectedArgs:  []interface{}{from.UTC(), to, 10},
		},
		{
			name:          "Postgres - upper bound and limit",
			q:             postgresQueries,
			filters:       &item.ItemList{To: to, Limit: 5},
			expectedQuery: `SELECT id, "timestamp" FROM item WHERE 1 = 1 AND "timestamp" <= $1 ORDER BY "timestamp" DESC, id ASC LIMIT $2;`,
			expectedArgs:  []interface{}{to, 5},
		},
		{
			name:          "Postgres - nil filters",
			q:             postgresQueries,
			filters:       nil,
			expectedQuery: `SELECT id, "timestamp" FROM item WHERE 1 = 1 ORDER BY "timestamp" DESC, id ASC;`,
			expectedArgs:  []interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSQLStorage(nil, tt.q, "test")
			query, args := s.buildFilteredQuery(tt.filters)
			require.Equal(t, tt.expectedQuery, query)
			require.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestMySQLConfig(t *testing.T) {
	_, err := mysqlConfig(config.Config{DBUser: "root"})
	require.ErrorContains(t, err, "missing required DB environment variables")

	cfg, err := mysqlConfig(config.Config{DBUser: "root", DBPass: "secret", DBHost: "localhost", DBPort: "3306", DBName: "expense_tracker"})
	require.NoError(t, err)
	require.Equal(t, "tcp", cfg.Net)
	require.Equal(t, "localhost:3306", cfg.Addr)
	require.Equal(t, "expense_tracker", cfg.DBName)
	require.True(t, cfg.ParseTime)
	require.Equal(t, time.UTC, cfg.Loc)
	require.Equal(t, "'+00:00'", cfg.Params["time_zone"])

	cfg, err = mysqlConfig(config.Config{FullDSN: "app:pw@tcp(db:3306)/", DBName: "fallback"})
	require.NoError(t, err)
	require.Equal(t, "fallback", cfg.DBName)
	require.Equal(t, "app", cfg.User)

	_, err = mysqlConfig(config.Config{FullDSN: "not a dsn"})
	require.ErrorContains(t, err, "invalid FULL_DSN")
}

func clearItems(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec("DELETE FROM item")
	require.NoError(t, err)
}

func TestMySQLStorageIntegration(t *testing.T) {
	dsn := os.Getenv("FULL_DSN")
	if dsn == "" {
		t.Skip("FULL_DSN not set")
	}
	cfg := config.Config{FullDSN: dsn, DBName: "expense_tracker_test", MigrationsDir: filepath.Join("..", "..", "db", "migrations")}

	db, err := InitMySQL(context.Background(), cfg)
	require.NoError(t, err)
	backend := NewMySQLStorage(db)
	defer backend.Close()
	clearItems(t, db)

	runBackendContract(t, backend)
}

func TestPostgresStorageIntegration(t *testing.T) {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL not set")
	}
	cfg := config.Config{PostgresURL: url, MigrationsDir: filepath.Join("..", "..", "db", "migrations")}

	db, err := InitPostgres(context.Background(), cfg)
	require.NoError(t, err)
	backend := NewPostgresStorage(db)
	defer backend.Close()
	clearItems(t, db)

	runBackendContract(t, backend)
}
