package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	forecastMeterName = "forecast.service"
)

type ForecastMetrics struct {
	forecasts        metric.Int64Counter
	forecastDuration metric.Float64Histogram
	cacheLookups     metric.Int64Counter
	snapshotReloads  metric.Int64Counter
}

func NewForecastMetrics() (*ForecastMetrics, error) {
	meter := otel.Meter(forecastMeterName)

	forecasts, err := meter.Int64Counter(
		"forecast_requests_total",
		metric.WithDescription("Total number of demand forecasts by outcome"),
		metric.WithUnit("{forecast}"),
	)
	if err != nil {
		return nil, err
	}

	forecastDuration, err := meter.Float64Histogram(
		"forecast_duration_seconds",
		metric.WithDescription("Time spent producing a demand forecast"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25,
		),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"forecast_cache_lookups_total",
		metric.WithDescription("Forecast cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	snapshotReloads, err := meter.Int64Counter(
		"forecast_snapshot_reloads_total",
		metric.WithDescription("Feature table and model reloads by outcome"),
		metric.WithUnit("{reload}"),
	)
	if err != nil {
		return nil, err
	}

	return &ForecastMetrics{
		forecasts:        forecasts,
		forecastDuration: forecastDuration,
		cacheLookups:     cacheLookups,
		snapshotReloads:  snapshotReloads,
	}, nil
}

func (m *ForecastMetrics) RecordForecast(ctx context.Context, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.forecasts.Add(ctx, 1, attrs)
	m.forecastDuration.Record(ctx, duration.Seconds(), attrs)
}

func (m *ForecastMetrics) RecordCacheLookup(ctx context.Context, result string) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}

func (m *ForecastMetrics) RecordSnapshotReload(ctx context.Context, outcome string) {
	m.snapshotReloads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
