package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/subosito/gotenv"
)

const (
	StorageInMemory = "inmemory"
	StorageMySQL    = "mysql"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string
	LogDir   string

	StorageType   string
	MigrationsDir string

	// MySQL
	DBUser  string
	DBPass  string
	DBHost  string
	DBPort  string
	DBName  string
	FullDSN string

	PostgresURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIKeyHash string
}

// Load reads .env (if present) into the process environment and builds the Config from it.
func Load() (Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env variables: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		AppEnv:        strings.ToLower(getEnv("APP_ENV", "development")),
		Port:          getEnv("APP_PORT", "8080"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "debug")),
		LogDir:        getEnv("LOG_DIR", "./logging/logs"),
		StorageType:   strings.ToLower(getEnv("STORAGE_TYPE", StorageInMemory)),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "db/migrations"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        getEnv("DB_NAME", "expense_tracker"),
		FullDSN:       os.Getenv("FULL_DSN"),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		APIKeyHash:    os.Getenv("API_KEY_HASH"),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid REDIS_DB value: '%s'", v)
		}
		cfg.RedisDB = n
	}

	switch cfg.StorageType {
	case StorageInMemory, StorageMySQL, StoragePostgres, StorageRedis:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_TYPE: '%s', allowed: inmemory, mysql, postgres, redis", cfg.StorageType)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
