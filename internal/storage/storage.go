package storage

import (
	"context"
	"fmt"

	"github.com/fatali-fataliyev/expense_tracker/internal/config"
	"github.com/fatali-fataliyev/expense_tracker/internal/item"
)

// Backend is an item.Storage that holds a connection to release on shutdown.
type Backend interface {
	item.Storage
	Close() error
}

var (
	_ Backend = (*InMemoryStorage)(nil)
	_ Backend = (*MySQLStorage)(nil)
	_ Backend = (*PostgresStorage)(nil)
	_ Backend = (*RedisStorage)(nil)
)

// Open connects the backend named by cfg.StorageType.
func Open(ctx context.Context, cfg config.Config) (Backend, error) {
	switch cfg.StorageType {
	case config.StorageInMemory:
		return NewInMemoryStorage(), nil
	case config.StorageMySQL:
		db, err := InitMySQL(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mysql: %w", err)
		}
		return NewMySQLStorage(db), nil
	case config.StoragePostgres:
		db, err := InitPostgres(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		return NewPostgresStorage(db), nil
	case config.StorageRedis:
		client, err := InitRedis(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		return NewRedisStorage(client), nil
	default:
		return nil, fmt.Errorf("unknown storage type: '%s'", cfg.StorageType)
	}
}
