package allocation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/service/ilp"
)

func mustParse(t *testing.T, name, expression string) Constraint {
	t.Helper()
	c, err := ParseConstraint(name, expression)
	if err != nil {
		t.Fatalf("parse %q: %v", expression, err)
	}
	return c
}

func TestAllocate_Optimal(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		problem func(t *testing.T) Problem
		want    map[string]int
		wantObj float64
	}{
		{
			name:   "ceiling binds before capacity",
			config: DefaultConfig(),
			problem: func(*testing.T) Problem {
				return Problem{
					Demand:   map[string]int{"A": 10, "B": 5},
					Capacity: map[string]int{"A": 3, "B": 3},
				}
			},
			want:    map[string]int{"A": 3, "B": 3},
			wantObj: 45,
		},
		{
			name: "pool favours highest demand",
			config: Config{
				PoolSize: 5, MinPerInstitution: 1, MaxPerInstitution: 3, FulfillmentRatio: 0.8,
			},
			problem: func(*testing.T) Problem {
				return Problem{
					Demand:   map[string]int{"A": 10, "B": 5, "C": 1},
					Capacity: map[string]int{"A": 7, "B": 7, "C": 7},
				}
			},
			want:    map[string]int{"A": 3, "B": 1, "C": 1},
			wantObj: 36,
		},
		{
			name:   "custom pair limit",
			config: DefaultConfig(),
			problem: func(t *testing.T) Problem {
				return Problem{
					Demand:      map[string]int{"A": 10, "B": 5},
					Capacity:    map[string]int{"A": 3, "B": 3},
					Constraints: []Constraint{mustParse(t, "pair", `alloc["A"] + alloc["B"] <= 2`)},
				}
			},
			want:    map[string]int{"A": 1, "B": 1},
			wantObj: 15,
		},
		{
			name:   "capacity below ceiling",
			config: DefaultConfig(),
			problem: func(*testing.T) Problem {
				return Problem{
					Demand:   map[string]int{"A": 4, "B": 9},
					Capacity: map[string]int{"A": 2, "B": 1},
				}
			},
			want:    map[string]int{"A": 2, "B": 1},
			wantObj: 17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.config, nil, nil)

			result, err := svc.Allocate(context.Background(), tt.problem(t))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != ilp.StatusOptimal {
				t.Errorf("status = %s, want optimal", result.Status)
			}
			if diff := cmp.Diff(tt.want, result.Allocations); diff != "" {
				t.Errorf("allocations mismatch (-want +got):\n%s", diff)
			}
			if result.Objective != tt.wantObj {
				t.Errorf("objective = %v, want %v", result.Objective, tt.wantObj)
			}
			if result.RunID == "" {
				t.Error("expected a run id")
			}
		})
	}
}

func TestAllocate_OneEntryPerInstitution(t *testing.T) {
	svc := NewService(DefaultConfig(), nil, nil)

	result, err := svc.Allocate(context.Background(), Problem{
		Demand:   map[string]int{"A": 0, "B": 2, "C": 0},
		Capacity: map[string]int{"A": 5, "B": 5, "C": 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Allocations) != 3 {
		t.Fatalf("got %d allocations, want 3", len(result.Allocations))
	}
	for inst, v := range result.Allocations {
		if v < 1 || v > 3 {
			t.Errorf("allocation[%s] = %d, want within [1, 3]", inst, v)
		}
	}
	if result.Allocations["B"] != 3 {
		t.Errorf("allocation[B] = %d, want 3", result.Allocations["B"])
	}
}

func TestAllocate_Infeasible(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		problem func(t *testing.T) Problem
	}{
		{
			name:   "zero capacity under floor",
			config: DefaultConfig(),
			problem: func(*testing.T) Problem {
				return Problem{
					Demand:   map[string]int{"A": 3, "B": 1},
					Capacity: map[string]int{"A": 0, "B": 2},
				}
			},
		},
		{
			name:   "custom floor above ceiling",
			config: DefaultConfig(),
			problem: func(t *testing.T) Problem {
				return Problem{
					Demand:      map[string]int{"A": 3, "B": 1},
					Capacity:    map[string]int{"A": 7, "B": 7},
					Constraints: []Constraint{mustParse(t, "geo", `alloc["A"] >= 4`)},
				}
			},
		},
		{
			name:   "pair limit below floors",
			config: DefaultConfig(),
			problem: func(t *testing.T) Problem {
				return Problem{
					Demand:      map[string]int{"A": 3, "B": 1},
					Capacity:    map[string]int{"A": 3, "B": 3},
					Constraints: []Constraint{mustParse(t, "pair", `A + B <= 1`)},
				}
			},
		},
		{
			name:   "pool smaller than floors",
			config: Config{PoolSize: 1, MinPerInstitution: 1},
			problem: func(*testing.T) Problem {
				return Problem{
					Demand:   map[string]int{"A": 3, "B": 1},
					Capacity: map[string]int{"A": 3, "B": 3},
				}
			},
		},
		{
			name:   "fulfillment unreachable",
			config: Config{PoolSize: 180, FulfillmentRatio: 0.8},
			problem: func(*testing.T) Problem {
				return Problem{
					Demand:   map[string]int{"A": 10, "B": 1},
					Capacity: map[string]int{"A": 0, "B": 1},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.config, nil, nil)

			result, err := svc.Allocate(context.Background(), tt.problem(t))
			if result != nil {
				t.Errorf("expected no result, got %+v", result)
			}
			if !errors.Is(err, ErrInfeasible) {
				t.Fatalf("got error %v, want ErrInfeasible", err)
			}
			if !IsSolveStatus(err, ilp.StatusInfeasible) {
				t.Errorf("error %v is not an infeasible SolveError", err)
			}
		})
	}
}

func TestAllocate_CanceledContextReportsTimeout(t *testing.T) {
	svc := NewService(DefaultConfig(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Allocate(ctx, Problem{
		Demand:   map[string]int{"A": 10, "B": 5},
		Capacity: map[string]int{"A": 3, "B": 3},
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("got error %v, want ErrTimeout", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error %v does not wrap context.Canceled", err)
	}
}

func TestAllocate_RejectsInvalidInput(t *testing.T) {
	svc := NewService(DefaultConfig(), nil, nil)

	_, err := svc.Allocate(context.Background(), Problem{
		Demand:   map[string]int{"A": 1},
		Capacity: map[string]int{},
	})
	if !errors.Is(err, ErrMissingCapacity) {
		t.Errorf("got error %v, want ErrMissingCapacity", err)
	}

	bad := DefaultConfig()
	bad.FulfillmentRatio = 1.5
	_, err = NewService(bad, nil, nil).Allocate(context.Background(), Problem{
		Demand:   map[string]int{"A": 1},
		Capacity: map[string]int{"A": 1},
	})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("got error %v, want ErrInvalidConfig", err)
	}
}

func TestAllocate_RecordsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := domain.NewMockAllocationRecorder(ctrl)

	var recorded []domain.AllocationRecord
	recorder.EXPECT().
		RecordAllocation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []domain.AllocationRecord) error {
			recorded = records
			return errors.New("influx down")
		})

	svc := NewService(DefaultConfig(), recorder, nil)
	result, err := svc.Allocate(context.Background(), Problem{
		Demand:   map[string]int{"B": 5, "A": 10},
		Capacity: map[string]int{"A": 3, "B": 2},
	})
	if err != nil {
		t.Fatalf("recorder failure must not fail the allocation: %v", err)
	}

	if len(recorded) != 2 {
		t.Fatalf("got %d records, want 2", len(recorded))
	}
	for i, want := range []struct {
		inst      string
		demand    int
		capacity  int
		allocated int
	}{
		{"A", 10, 3, 3},
		{"B", 5, 2, 2},
	} {
		got := recorded[i]
		if got.Institution != want.inst || got.Demand != want.demand ||
			got.Capacity != want.capacity || got.Allocated != want.allocated {
			t.Errorf("record[%d] = %+v, want %+v", i, got, want)
		}
		if got.RunID != result.RunID || got.Status != "optimal" {
			t.Errorf("record[%d] run metadata = %s/%s", i, got.RunID, got.Status)
		}
	}
}
