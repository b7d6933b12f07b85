package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=forecast_cache.go -destination=forecast_cache_mock.go -package=domain

type ForecastKey struct {
	Version     string
	Institution string
	Date        time.Time
}

// ForecastCache stores decoded forecasts. A miss is reported with found=false.
type ForecastCache interface {
	Get(ctx context.Context, key ForecastKey) (demand int, found bool, err error)
	Set(ctx context.Context, key ForecastKey, demand int) error
}
