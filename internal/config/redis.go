package config

import (
	"crypto/tls"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisAddrEnv        = "REDIS_ADDR"
	redisPasswordEnv    = "REDIS_PASSWORD"
	redisDBEnv          = "REDIS_DB"
	redisTLSEnv         = "REDIS_TLS"
	redisDialTimeoutEnv = "REDIS_DIAL_TIMEOUT"

	defaultRedisAddr        = "localhost:6379"
	defaultRedisDB          = 0
	defaultRedisDialTimeout = 5 * time.Second
)

// RedisConfig is only consulted when the forecast cache is enabled.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TLS         bool
	DialTimeout time.Duration
}

func LoadRedisConfig() (*RedisConfig, error) {
	addr := os.Getenv(redisAddrEnv)
	if addr == "" {
		addr = defaultRedisAddr
	}

	db := defaultRedisDB
	if raw := os.Getenv(redisDBEnv); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return nil, ErrInvalidRedisDB
		}
		db = parsed
	}

	dialTimeout := defaultRedisDialTimeout
	if v := os.Getenv(redisDialTimeoutEnv); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			dialTimeout = parsed
		}
	}

	return &RedisConfig{
		Addr:        addr,
		Password:    os.Getenv(redisPasswordEnv),
		DB:          db,
		TLS:         os.Getenv(redisTLSEnv) == "true",
		DialTimeout: dialTimeout,
	}, nil
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}

// ClientOptions builds go-redis options for the forecast cache client.
func (c *RedisConfig) ClientOptions() *redis.Options {
	opts := &redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: c.DialTimeout,
	}
	if c.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}
