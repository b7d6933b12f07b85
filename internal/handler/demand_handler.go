package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/service/forecast"
)

//go:generate mockgen -source=demand_handler.go -destination=demand_handler_mock.go -package=handler

type Forecaster interface {
	Forecast(ctx context.Context, institution, date string) (*forecast.Result, error)
}

const (
	statusOK    = "ok"
	statusError = "error"
)

type DemandResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	Institution    string `json:"institution,omitempty"`
	Date           string `json:"date,omitempty"`
	DemandForecast *int   `json:"demand_forecast,omitempty"`
}

type DemandHandler struct {
	forecaster Forecaster
}

func NewDemandHandler(forecaster Forecaster) *DemandHandler {
	return &DemandHandler{forecaster: forecaster}
}

func (h *DemandHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Hello": "World"})
}

func (h *DemandHandler) HandleDemand(c *gin.Context) {
	ctx := c.Request.Context()

	institution := c.Query("institution")
	date := c.Query("date")

	result, err := h.forecaster.Forecast(ctx, institution, date)
	if err != nil {
		status, message := errorResponse(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "demand forecast failed",
				slog.String("institution", institution),
				slog.String("date", date),
				slog.String("error", err.Error()),
			)
		}
		c.JSON(status, DemandResponse{Status: statusError, Message: message})
		return
	}

	if !result.Found {
		c.JSON(http.StatusNotFound, DemandResponse{
			Status:  statusError,
			Message: "No DB entry found",
		})
		return
	}

	demand := result.Demand
	c.JSON(http.StatusOK, DemandResponse{
		Status:         statusOK,
		Institution:    result.Institution,
		Date:           domain.DateKey(result.Date),
		DemandForecast: &demand,
	})
}

func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNoInstitution):
		return http.StatusBadRequest, "No institution passed"
	case errors.Is(err, domain.ErrNoDate):
		return http.StatusBadRequest, "No date passed"
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD"
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "No DB entry found"
	case errors.Is(err, domain.ErrDuplicateRecord):
		return http.StatusInternalServerError, "multiple DB entries found"
	case errors.Is(err, forecast.ErrNotLoaded):
		return http.StatusServiceUnavailable, "forecast dataset not loaded"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
