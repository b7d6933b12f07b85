package allocationrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.AllocationRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordAllocation(_ context.Context, _ []domain.AllocationRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
