package forecastclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/logging"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/tracing"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response from forecast service")
	ErrMalformedPayload = errors.New("malformed forecast payload")
)

const demandPath = "/demand/"

// messageErrors maps the service's error messages back to domain errors.
var messageErrors = map[string]error{
	"no institution passed": domain.ErrNoInstitution,
	"no date passed":        domain.ErrNoDate,
	"no db entry found":     domain.ErrRecordNotFound,
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClient(baseURL),
	}
}

// NewClientWithHTTPClient uses the given client for every request.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Forecast returns the demand forecast for an institution on a day. A missing
// feature record is reported as domain.ErrRecordNotFound.
func (c *Client) Forecast(ctx context.Context, institution string, date time.Time) (int, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimRight(u.Path, "/") + demandPath
	q := u.Query()
	q.Set("institution", institution)
	q.Set("date", domain.DateKey(date))
	u.RawQuery = q.Encode()

	ctx, span := tracing.StartExternalAPISpan(ctx, "demand", u.String())
	defer span.End()

	slog.DebugContext(ctx, "fetching demand forecast",
		slog.String("url", u.String()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set("x-request-id", requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to send request to forecast service",
			slog.String("url", u.String()),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var payload DemandResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		span.SetStatus(codes.Error, "malformed payload")
		slog.ErrorContext(ctx, "failed to decode forecast response",
			slog.Int("status_code", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("%w: status %d: %v", ErrMalformedPayload, resp.StatusCode, err)
	}

	if payload.Status != "ok" {
		if mapped, ok := messageErrors[strings.ToLower(payload.Message)]; ok {
			return 0, fmt.Errorf("%w: %s on %s", mapped, institution, domain.DateKey(date))
		}
		span.SetStatus(codes.Error, payload.Message)
		return 0, fmt.Errorf("%w: status %d: %s", ErrUnexpectedStatus, resp.StatusCode, payload.Message)
	}

	if payload.DemandForecast == nil {
		return 0, fmt.Errorf("%w: missing demand_forecast", ErrMalformedPayload)
	}

	return *payload.DemandForecast, nil
}

// ForecastAll fetches forecasts for every institution; any missing record
// fails the batch.
func (c *Client) ForecastAll(ctx context.Context, institutions []string, date time.Time) (map[string]int, error) {
	demand := make(map[string]int, len(institutions))
	for _, institution := range institutions {
		v, err := c.Forecast(ctx, institution, date)
		if err != nil {
			return nil, err
		}
		demand[institution] = v
	}

	slog.DebugContext(ctx, "fetched demand forecasts",
		slog.Int("count", len(demand)),
	)
	return demand, nil
}
