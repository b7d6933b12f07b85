//go:build !gcloud

package allocationrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
)

const allocationMeasurement = "allocation_result"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.AllocationRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "allocation result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, allocation result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "allocation result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordAllocation(ctx context.Context, records []domain.AllocationRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*write.Point, 0, len(records))
	for _, record := range records {
		points = append(points, allocationPoint(record))
	}

	if err := r.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("write %d allocation points to InfluxDB: %w", len(points), err)
	}
	return nil
}

func allocationPoint(record domain.AllocationRecord) *write.Point {
	runID := record.RunID
	if runID == "" {
		runID = "default"
	}

	pointTime := record.RecordedAt
	if pointTime.IsZero() {
		pointTime = time.Now()
	}

	return influxdb2.NewPoint(
		allocationMeasurement,
		map[string]string{
			"run_id":      runID,
			"status":      record.Status,
			"institution": record.Institution,
		},
		map[string]any{
			"demand":    record.Demand,
			"capacity":  record.Capacity,
			"allocated": record.Allocated,
			"objective": record.Objective,
		},
		pointTime,
	)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
