package dataset

import (
	"context"
	"time"

	"github.com/viant/afs"
	"go.opentelemetry.io/otel/codes"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/infra/featuretable"
	"github.com/KasumiMercury/primind-demand-allocation/internal/infra/predictor"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/tracing"
	"github.com/KasumiMercury/primind-demand-allocation/internal/service/forecast"
)

// Loader reads the feature table and model pipeline from storage URLs.
type Loader struct {
	fs           afs.Service
	tableURL     string
	modelURL     string
	tableOptions featuretable.Options
}

func NewLoader(fs afs.Service, tableURL, modelURL string, tableOptions featuretable.Options) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	return &Loader{
		fs:           fs,
		tableURL:     tableURL,
		modelURL:     modelURL,
		tableOptions: tableOptions,
	}
}

func (l *Loader) Load(ctx context.Context) (*forecast.Snapshot, error) {
	ctx, span := tracing.StartSnapshotLoadSpan(ctx, l.tableURL, l.modelURL)
	defer span.End()

	table, err := featuretable.Load(ctx, l.fs, l.tableURL, l.tableOptions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	pipeline, err := predictor.Load(ctx, l.fs, l.modelURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	columns := pipeline.Columns
	if len(columns) == 0 {
		columns = domain.ModelColumns
	}

	return &forecast.Snapshot{
		Table:     table,
		Predictor: pipeline,
		Columns:   columns,
		Version:   pipeline.Version() + "-" + table.Fingerprint(),
		LoadedAt:  time.Now(),
	}, nil
}
