package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/metrics"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/tracing"
)

const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

type Service struct {
	loader   Loader
	snapshot atomic.Pointer[Snapshot]
	refresh  sync.Mutex
	cache    domain.ForecastCache
	metrics  *metrics.ForecastMetrics
}

func NewService(loader Loader, cache domain.ForecastCache, forecastMetrics *metrics.ForecastMetrics) *Service {
	return &Service{
		loader:  loader,
		cache:   cache,
		metrics: forecastMetrics,
	}
}

// Refresh loads a new snapshot and swaps it in. In-flight forecasts keep
// using the snapshot they started with; a failed load keeps the current one.
func (s *Service) Refresh(ctx context.Context) error {
	s.refresh.Lock()
	defer s.refresh.Unlock()

	snapshot, err := s.loader.Load(ctx)
	if err == nil && (snapshot == nil || snapshot.Table == nil || snapshot.Predictor == nil) {
		err = errors.New("loader returned an incomplete snapshot")
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSnapshotReload(ctx, outcomeError)
		}
		slog.ErrorContext(ctx, "failed to load forecast dataset",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("load forecast dataset: %w", err)
	}

	if len(snapshot.Columns) == 0 {
		snapshot.Columns = domain.ModelColumns
	}
	if snapshot.LoadedAt.IsZero() {
		snapshot.LoadedAt = time.Now()
	}

	previous := s.snapshot.Swap(snapshot)
	if s.metrics != nil {
		s.metrics.RecordSnapshotReload(ctx, outcomeOK)
	}

	attrs := []any{
		slog.String("version", snapshot.Version),
		slog.Int("records", snapshot.Table.Len()),
	}
	if previous != nil {
		attrs = append(attrs, slog.String("previous_version", previous.Version))
	}
	slog.InfoContext(ctx, "forecast dataset loaded", attrs...)

	return nil
}

func (s *Service) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

func (s *Service) Ready() bool {
	return s.snapshot.Load() != nil
}

// DatasetVersion returns the loaded snapshot version, or "" before the first
// successful refresh.
func (s *Service) DatasetVersion() string {
	if snapshot := s.snapshot.Load(); snapshot != nil {
		return snapshot.Version
	}
	return ""
}

// Forecast validates raw request inputs and forecasts demand for one institution.
func (s *Service) Forecast(ctx context.Context, institution, date string) (*Result, error) {
	institution = strings.TrimSpace(institution)
	if institution == "" {
		return nil, domain.ErrNoInstitution
	}
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.ForecastAt(ctx, institution, day)
}

// ForecastAt forecasts demand for an institution on the calendar day of date.
func (s *Service) ForecastAt(ctx context.Context, institution string, date time.Time) (*Result, error) {
	if institution == "" {
		return nil, domain.ErrNoInstitution
	}
	if date.IsZero() {
		return nil, domain.ErrNoDate
	}

	snapshot := s.snapshot.Load()
	if snapshot == nil {
		return nil, ErrNotLoaded
	}

	day := truncateDay(date)
	ctx, span := tracing.StartForecastSpan(ctx, institution, domain.DateKey(day))
	defer span.End()

	start := time.Now()
	result, err := s.forecast(ctx, snapshot, institution, day)
	duration := time.Since(start)

	outcome := outcomeOK
	switch {
	case err != nil:
		outcome = outcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case !result.Found:
		outcome = outcomeNotFound
	default:
		span.SetAttributes(
			attribute.Int("forecast.demand", result.Demand),
			attribute.Bool("forecast.cached", result.Cached),
		)
	}
	if s.metrics != nil {
		s.metrics.RecordForecast(ctx, outcome, duration)
	}

	return result, err
}

func (s *Service) forecast(ctx context.Context, snapshot *Snapshot, institution string, day time.Time) (*Result, error) {
	result := &Result{Institution: institution, Date: day}
	key := domain.ForecastKey{Version: snapshot.Version, Institution: institution, Date: day}

	if s.cache != nil {
		demand, found, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.recordCacheLookup(ctx, "error")
			slog.WarnContext(ctx, "forecast cache lookup failed",
				slog.String("institution", institution),
				slog.String("error", err.Error()),
			)
		case found:
			s.recordCacheLookup(ctx, "hit")
			result.Demand = demand
			result.Found = true
			result.Cached = true
			return result, nil
		default:
			s.recordCacheLookup(ctx, "miss")
		}
	}

	records := snapshot.Table.Lookup(institution, day)
	switch len(records) {
	case 0:
		slog.DebugContext(ctx, "no feature record",
			slog.String("institution", institution),
			slog.String("date", domain.DateKey(day)),
		)
		return result, nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d records for %s on %s",
			domain.ErrDuplicateRecord, len(records), institution, domain.DateKey(day))
	}

	vector := records[0].Select(snapshot.Columns)
	prediction, err := snapshot.Predictor.Predict(ctx, vector)
	if err != nil {
		return nil, fmt.Errorf("predict %s on %s: %w", institution, domain.DateKey(day), err)
	}

	demand, err := Decode(prediction)
	if err != nil {
		return nil, fmt.Errorf("decode %s on %s: %w", institution, domain.DateKey(day), err)
	}

	result.Demand = demand
	result.LogPrediction = prediction
	result.Found = true

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, demand); err != nil {
			slog.WarnContext(ctx, "failed to store forecast in cache",
				slog.String("institution", institution),
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}

// ForecastAll forecasts every institution for one day. Each institution must
// have exactly one feature record.
func (s *Service) ForecastAll(ctx context.Context, institutions []string, date time.Time) (map[string]int, error) {
	demand := make(map[string]int, len(institutions))
	for _, institution := range institutions {
		result, err := s.ForecastAt(ctx, institution, date)
		if err != nil {
			return nil, err
		}
		if !result.Found {
			return nil, fmt.Errorf("%w: %s on %s", domain.ErrRecordNotFound, institution, domain.DateKey(date))
		}
		demand[institution] = result.Demand
	}

	slog.InfoContext(ctx, "forecast batch complete",
		slog.Int("institutions", len(demand)),
		slog.String("date", domain.DateKey(date)),
	)
	return demand, nil
}

func (s *Service) recordCacheLookup(ctx context.Context, result string) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(ctx, result)
	}
}
