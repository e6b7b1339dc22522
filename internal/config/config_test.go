package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "APP_PORT", "LOG_LEVEL", "LOG_DIR", "STORAGE_TYPE", "REDIS_DB", "DB_NAME", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, StorageInMemory, cfg.StorageType)
	require.Equal(t, "expense_tracker", cfg.DBName)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.False(t, cfg.IsProduction())
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedErr string
	}{
		{
			name: "Success - redis",
			env:  map[string]string{"STORAGE_TYPE": "Redis", "REDIS_DB": "3"},
		},
		{
			name:        "Fail - unknown storage",
			env:         map[string]string{"STORAGE_TYPE": "sqlite"},
			expectedErr: "unknown STORAGE_TYPE",
		},
		{
			name:        "Fail - bad redis db",
			env:         map[string]string{"STORAGE_TYPE": "redis", "REDIS_DB": "-1"},
			expectedErr: "invalid REDIS_DB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REDIS_DB", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := FromEnv()
			if tt.expectedErr != "" {
				require.ErrorContains(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, StorageRedis, cfg.StorageType)
			require.Equal(t, 3, cfg.RedisDB)
		})
	}
}
