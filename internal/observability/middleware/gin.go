package middleware

import (
	"log/slog"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/logging"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/metrics"
)

const requestIDHeader = "x-request-id"

type GinConfig struct {
	// SkipPaths are served without logs, spans or metrics.
	SkipPaths []string
	Module    logging.Module
	// Worker marks the service as a backend worker; spans become consumer
	// spans instead of server spans.
	Worker          bool
	TracerName      string
	JobNameResolver func(c *gin.Context) string
	HTTPMetrics     *metrics.HTTPMetrics
}

func Gin(cfg GinConfig) gin.HandlerFunc {
	tracer := otel.Tracer(cfg.TracerName)
	spanKind := trace.SpanKindServer
	if cfg.Worker {
		spanKind = trace.SpanKindConsumer
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if slices.Contains(cfg.SkipPaths, path) {
			c.Next()
			return
		}

		start := time.Now()

		requestID := logging.ValidateAndExtractRequestID(c.GetHeader(requestIDHeader))
		c.Header(requestIDHeader, requestID)

		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx = logging.WithRequestID(ctx, requestID)
		if cfg.Module != "" {
			ctx = logging.WithModule(ctx, cfg.Module)
		}

		spanName := c.Request.Method + " " + path
		if cfg.JobNameResolver != nil {
			if name := cfg.JobNameResolver(c); name != "" {
				spanName = name
			}
		}

		ctx, span := tracer.Start(ctx, spanName,
			trace.WithSpanKind(spanKind),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("url.path", path),
				attribute.String("request_id", requestID),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}

		if cfg.HTTPMetrics != nil {
			cfg.HTTPMetrics.RecordRequest(ctx, c.Request.Method, route, status, duration)
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		slog.Log(ctx, level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
