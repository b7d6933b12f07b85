package config

import (
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/logging"
)

const (
	portEnv           = "PORT"
	logLevelEnv       = "LOG_LEVEL"
	http2CleartextEnv = "HTTP2_CLEARTEXT"

	defaultPort = "8080"
)

type Config struct {
	Port           string
	LogLevel       slog.Level
	HTTP2Cleartext bool
	Dataset        *DatasetConfig
	Redis          *RedisConfig
	Cache          *CacheConfig
	Allocation     *AllocationConfig
}

func Load() (*Config, error) {
	port := os.Getenv(portEnv)
	if port == "" {
		port = defaultPort
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	allocationConfig, err := LoadAllocationConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           port,
		LogLevel:       logging.ParseLevel(os.Getenv(logLevelEnv)),
		HTTP2Cleartext: os.Getenv(http2CleartextEnv) == "true",
		Dataset:        LoadDatasetConfig(),
		Redis:          redisConfig,
		Cache:          LoadCacheConfig(),
		Allocation:     allocationConfig,
	}, nil
}
