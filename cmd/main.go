package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/viant/afs"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/KasumiMercury/primind-demand-allocation/internal/config"
	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/handler"
	"github.com/KasumiMercury/primind-demand-allocation/internal/health"
	"github.com/KasumiMercury/primind-demand-allocation/internal/infra/dataset"
	"github.com/KasumiMercury/primind-demand-allocation/internal/infra/repository"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/logging"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/metrics"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/middleware"
	"github.com/KasumiMercury/primind-demand-allocation/internal/service/forecast"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logLevel := new(slog.LevelVar)

	obs, err := initObservability(ctx, logLevel)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}
	logLevel.Set(cfg.LogLevel)

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	forecastMetrics, err := metrics.NewForecastMetrics()
	if err != nil {
		slog.Error("failed to initialize forecast metrics", slog.String("error", err.Error()))
		return 1
	}

	var (
		redisClient   *redis.Client
		forecastCache domain.ForecastCache
	)
	if cfg.Cache.Enabled {
		redisClient, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect redis",
				slog.String("event", "redis.connect.fail"),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		forecastCache = repository.NewForecastCache(redisClient, cfg.Cache.TTL)

		slog.Info("forecast cache enabled",
			slog.String("addr", cfg.Redis.Addr),
			slog.Duration("ttl", cfg.Cache.TTL),
		)
	}

	loader := dataset.NewLoader(afs.New(), cfg.Dataset.FeatureTableURL, cfg.Dataset.DemandModelURL, cfg.Dataset.Table)
	forecastService := forecast.NewService(loader, forecastCache, forecastMetrics)

	if err := forecastService.Refresh(ctx); err != nil {
		slog.Error("failed to load forecast dataset",
			slog.String("feature_table_url", cfg.Dataset.FeatureTableURL),
			slog.String("demand_model_url", cfg.Dataset.DemandModelURL),
			slog.String("error", err.Error()),
		)
		return 1
	}

	// SIGHUP reloads the feature table and model without a restart.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				if err := forecastService.Refresh(ctx); err != nil {
					slog.Error("dataset reload failed, keeping previous snapshot", slog.String("error", err.Error()))
					continue
				}
				slog.Info("dataset reloaded", slog.String("version", forecastService.Snapshot().Version))
			}
		}
	}()

	demandHandler := handler.NewDemandHandler(forecastService)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:     logging.Module("demand-forecast"),
		TracerName: "github.com/KasumiMercury/primind-demand-allocation/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if route := c.FullPath(); route != "" {
				return c.Request.Method + " " + route
			}
			return c.Request.URL.Path
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(forecastService, redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	r.GET("/", demandHandler.HandleRoot)
	r.GET("/demand/", demandHandler.HandleDemand)

	var h http.Handler = r
	if cfg.HTTP2Cleartext {
		h = h2c.NewHandler(r, &http2.Server{})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("dataset_version", forecastService.Snapshot().Version),
			slog.Bool("cache_enabled", cfg.Cache.Enabled),
			slog.Bool("h2c", cfg.HTTP2Cleartext),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(cfg.ClientOptions())

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, err
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
