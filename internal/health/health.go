package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

const checkTimeout = 5 * time.Second

type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// DatasetState reports whether a forecast dataset snapshot is loaded.
type DatasetState interface {
	Ready() bool
}

// DatasetVersioner is optionally implemented by a DatasetState to expose the
// loaded snapshot version.
type DatasetVersioner interface {
	DatasetVersion() string
}

// Checker reports readiness of the forecast dataset and, when the forecast
// cache is enabled, Redis.
type Checker struct {
	dataset     DatasetState
	redisClient *redis.Client
	version     string
}

// NewChecker creates a health checker. redisClient is nil when the forecast
// cache is disabled.
func NewChecker(dataset DatasetState, redisClient *redis.Client, version string) *Checker {
	return &Checker{
		dataset:     dataset,
		redisClient: redisClient,
		version:     version,
	}
}

func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	checks := make(map[string]CheckResult)
	if c.dataset != nil {
		checks["dataset"] = c.checkDataset()
	}
	if c.redisClient != nil {
		checks["redis"] = c.checkRedis(checkCtx)
	}

	status := StatusHealthy
	for _, result := range checks {
		if result.Status != StatusHealthy {
			status = StatusUnhealthy
			break
		}
	}

	return &HealthStatus{
		Status:  status,
		Version: c.version,
		Checks:  checks,
	}
}

func (c *Checker) checkDataset() CheckResult {
	if !c.dataset.Ready() {
		return CheckResult{Status: StatusUnhealthy, Error: "forecast dataset not loaded"}
	}
	result := CheckResult{Status: StatusHealthy}
	if v, ok := c.dataset.(DatasetVersioner); ok {
		result.Detail = v.DatasetVersion()
	}
	return result
}

func (c *Checker) checkRedis(ctx context.Context) CheckResult {
	start := time.Now()
	if err := c.redisClient.Ping(ctx).Err(); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler answers 503 until every dependency is healthy.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
