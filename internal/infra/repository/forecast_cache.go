package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/tracing"
)

const (
	forecastKeyPrefix = "forecast:"

	defaultForecastTTL = 1 * time.Hour
)

type forecastRecord struct {
	Institution string    `json:"institution"`
	Date        string    `json:"date"`
	Demand      int       `json:"demand"`
	CachedAt    time.Time `json:"cached_at"`
}

type forecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewForecastCache(client *redis.Client, ttl time.Duration) domain.ForecastCache {
	if ttl <= 0 {
		ttl = defaultForecastTTL
	}
	return &forecastCache{
		client: client,
		ttl:    ttl,
	}
}

// ForecastCacheKey is forecast:<version>:<institution>:<date>.
func ForecastCacheKey(key domain.ForecastKey) (string, error) {
	if key.Version == "" || key.Institution == "" || key.Date.IsZero() {
		return "", ErrInvalidForecastKey
	}
	return fmt.Sprintf("%s%s:%s:%s", forecastKeyPrefix, key.Version, key.Institution, domain.DateKey(key.Date)), nil
}

func (c *forecastCache) Get(ctx context.Context, key domain.ForecastKey) (int, bool, error) {
	redisKey, err := ForecastCacheKey(key)
	if err != nil {
		return 0, false, err
	}

	ctx, span := tracing.StartRedisOperationSpan(ctx, "get", redisKey)
	defer span.End()

	data, err := c.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, false, fmt.Errorf("%w: %v", ErrRedisConnection, err)
	}

	var record forecastRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return 0, false, ErrInvalidForecastData
	}
	if record.Demand < 0 {
		return 0, false, ErrInvalidForecastData
	}

	return record.Demand, true, nil
}

func (c *forecastCache) Set(ctx context.Context, key domain.ForecastKey, demand int) error {
	redisKey, err := ForecastCacheKey(key)
	if err != nil {
		return err
	}
	if demand < 0 {
		return ErrInvalidForecastData
	}

	ctx, span := tracing.StartRedisOperationSpan(ctx, "set", redisKey)
	defer span.End()

	data, err := json.Marshal(forecastRecord{
		Institution: key.Institution,
		Date:        domain.DateKey(key.Date),
		Demand:      demand,
		CachedAt:    time.Now().UTC(),
	})
	if err != nil {
		return ErrInvalidForecastData
	}

	if err := c.client.Set(ctx, redisKey, data, c.ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %v", ErrRedisConnection, err)
	}
	return nil
}
