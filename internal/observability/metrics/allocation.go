package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	allocationMeterName = "allocation.service"
)

type AllocationMetrics struct {
	solves            metric.Int64Counter
	solveDuration     metric.Float64Histogram
	solveNodes        metric.Int64Histogram
	unitsAllocated    metric.Int64Counter
	recordingFailures metric.Int64Counter
}

func NewAllocationMetrics() (*AllocationMetrics, error) {
	meter := otel.Meter(allocationMeterName)

	solves, err := meter.Int64Counter(
		"allocation_solves_total",
		metric.WithDescription("Total number of allocation solves by outcome"),
		metric.WithUnit("{solve}"),
	)
	if err != nil {
		return nil, err
	}

	solveDuration, err := meter.Float64Histogram(
		"allocation_solve_duration_seconds",
		metric.WithDescription("Time spent solving the allocation program"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	solveNodes, err := meter.Int64Histogram(
		"allocation_solve_nodes",
		metric.WithDescription("Branch-and-bound nodes explored per solve"),
		metric.WithUnit("{node}"),
		metric.WithExplicitBucketBoundaries(
			1, 10, 100, 1000, 10000, 100000,
		),
	)
	if err != nil {
		return nil, err
	}

	unitsAllocated, err := meter.Int64Counter(
		"allocation_units_total",
		metric.WithDescription("Total resource units allocated"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, err
	}

	recordingFailures, err := meter.Int64Counter(
		"allocation_recording_failures_total",
		metric.WithDescription("Allocation results that could not be recorded"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	return &AllocationMetrics{
		solves:            solves,
		solveDuration:     solveDuration,
		solveNodes:        solveNodes,
		unitsAllocated:    unitsAllocated,
		recordingFailures: recordingFailures,
	}, nil
}

func (m *AllocationMetrics) RecordSolve(ctx context.Context, status string, duration time.Duration, nodes int) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.solves.Add(ctx, 1, attrs)
	m.solveDuration.Record(ctx, duration.Seconds(), attrs)
	m.solveNodes.Record(ctx, int64(nodes), attrs)
}

func (m *AllocationMetrics) RecordUnitsAllocated(ctx context.Context, units int) {
	m.unitsAllocated.Add(ctx, int64(units))
}

func (m *AllocationMetrics) RecordRecordingFailure(ctx context.Context) {
	m.recordingFailures.Add(ctx, 1)
}
