package config

import (
	"os"
	"time"
)

const (
	forecastCacheEnabledEnv = "FORECAST_CACHE_ENABLED"
	forecastCacheTTLEnv     = "FORECAST_CACHE_TTL"

	defaultForecastCacheTTL = time.Hour
)

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

func LoadCacheConfig() *CacheConfig {
	ttl := defaultForecastCacheTTL
	if v := os.Getenv(forecastCacheTTLEnv); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	return &CacheConfig{
		Enabled: os.Getenv(forecastCacheEnabledEnv) == "true",
		TTL:     ttl,
	}
}
