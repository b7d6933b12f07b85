package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	forecastTracerName   = "github.com/KasumiMercury/primind-demand-allocation/internal/service/forecast"
	allocationTracerName = "github.com/KasumiMercury/primind-demand-allocation/internal/service/allocation"
)

func ForecastTracer() trace.Tracer {
	return otel.Tracer(forecastTracerName)
}

func AllocationTracer() trace.Tracer {
	return otel.Tracer(allocationTracerName)
}

func StartForecastSpan(ctx context.Context, institution, date string) (context.Context, trace.Span) {
	return ForecastTracer().Start(ctx, "forecast.predict",
		trace.WithAttributes(
			attribute.String("institution", institution),
			attribute.String("date", date),
		),
	)
}

func StartSnapshotLoadSpan(ctx context.Context, tableURL, modelURL string) (context.Context, trace.Span) {
	return ForecastTracer().Start(ctx, "forecast.snapshot_load",
		trace.WithAttributes(
			attribute.String("feature_table.url", tableURL),
			attribute.String("model.url", modelURL),
		),
	)
}

func StartModelBuildSpan(ctx context.Context, institutions, constraints int) (context.Context, trace.Span) {
	return AllocationTracer().Start(ctx, "allocation.build_model",
		trace.WithAttributes(
			attribute.Int("allocation.institutions", institutions),
			attribute.Int("allocation.custom_constraints", constraints),
		),
	)
}

func StartSolveSpan(ctx context.Context, variables, rows int) (context.Context, trace.Span) {
	return AllocationTracer().Start(ctx, "allocation.solve",
		trace.WithAttributes(
			attribute.Int("ilp.variables", variables),
			attribute.Int("ilp.rows", rows),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return ForecastTracer().Start(ctx, "forecast.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return ForecastTracer().Start(ctx, "forecast.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// InjectToHTTPRequest propagates the active trace context onto an outgoing request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
