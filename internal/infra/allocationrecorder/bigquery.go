//go:build gcloud

package allocationrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt  time.Time `bigquery:"recorded_at"`
	RunID       string    `bigquery:"run_id"`
	Status      string    `bigquery:"status"`
	Objective   float64   `bigquery:"objective"`
	Institution string    `bigquery:"institution"`
	Demand      int64     `bigquery:"demand"`
	Capacity    int64     `bigquery:"capacity"`
	Allocated   int64     `bigquery:"allocated"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.AllocationRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "allocation result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, allocation result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, allocation result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "allocation result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordAllocation(ctx context.Context, records []domain.AllocationRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	bqRecords := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		recordedAt := record.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = now
		}
		bqRecords = append(bqRecords, &bigQueryRecord{
			RecordedAt:  recordedAt,
			RunID:       record.RunID,
			Status:      record.Status,
			Objective:   record.Objective,
			Institution: record.Institution,
			Demand:      int64(record.Demand),
			Capacity:    int64(record.Capacity),
			Allocated:   int64(record.Allocated),
		})
	}

	if err := r.inserter.Put(ctx, bqRecords); err != nil {
		return fmt.Errorf("insert %d allocation rows to BigQuery %s.%s: %w", len(records), r.dataset, r.table, err)
	}
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
