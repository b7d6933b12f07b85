package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=allocation_recorder.go -destination=allocation_recorder_mock.go -package=domain

type AllocationRecord struct {
	RunID       string
	RecordedAt  time.Time
	Status      string
	Objective   float64
	Institution string
	Demand      int
	Capacity    int
	Allocated   int
}

type AllocationRecorder interface {
	RecordAllocation(ctx context.Context, records []AllocationRecord) error
	Close() error
}
