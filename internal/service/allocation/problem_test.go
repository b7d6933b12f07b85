package allocation

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KasumiMercury/primind-demand-allocation/internal/service/ilp"
)

func TestBuildModel_RowsPerInstitution(t *testing.T) {
	problem := Problem{
		Demand:   map[string]int{"B": 5, "A": 10},
		Capacity: map[string]int{"A": 3, "B": 4},
		Constraints: []Constraint{
			{Name: "pair", Relation: RelationLE, Terms: []Term{{Institution: "A", Coefficient: 1}, {Institution: "B", Coefficient: 1}}, Bound: 5},
		},
	}

	model, err := BuildModel(DefaultConfig(), problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"A", "B"}, model.Variables()); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for _, row := range model.Rows() {
		names = append(names, row.Name)
	}
	want := []string{
		"ResourceConstraint_A",
		"ResourceConstraint_B",
		"total_allocation_limit",
		"max_allocation_A",
		"max_allocation_B",
		"min_allocation_A",
		"min_allocation_B",
		"demand_fulfillment_ratio",
		"CustomConstraint_pair",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("row names mismatch (-want +got):\n%s", diff)
	}

	rows := model.Rows()
	if rows[1].RHS != 4 || rows[1].Sense != ilp.LessOrEqual {
		t.Errorf("capacity row for B = %+v, want <= 4", rows[1])
	}
	if math.Abs(rows[7].RHS-12) > 1e-9 || rows[7].Sense != ilp.GreaterOrEqual {
		t.Errorf("fulfillment row = %+v, want >= 12", rows[7])
	}
}

func TestBuildModel_DisabledBounds(t *testing.T) {
	cfg := Config{PoolSize: 10}
	problem := Problem{
		Demand:   map[string]int{"A": 1},
		Capacity: map[string]int{"A": 1},
	}

	model, err := BuildModel(cfg, problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(model.Rows()); got != 2 {
		t.Errorf("got %d rows, want capacity and pool rows only", got)
	}
}

func TestProblem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		problem Problem
		wantErr []error
	}{
		{
			name:    "empty demand",
			problem: Problem{},
			wantErr: []error{ErrEmptyDemand},
		},
		{
			name: "missing and negative capacity",
			problem: Problem{
				Demand:   map[string]int{"A": 1, "B": 1},
				Capacity: map[string]int{"B": -1},
			},
			wantErr: []error{ErrMissingCapacity, ErrNegativeCapacity},
		},
		{
			name: "negative demand",
			problem: Problem{
				Demand:   map[string]int{"A": -2},
				Capacity: map[string]int{"A": 1},
			},
			wantErr: []error{ErrNegativeDemand},
		},
		{
			name: "unknown institution and duplicate name",
			problem: Problem{
				Demand:   map[string]int{"A": 1},
				Capacity: map[string]int{"A": 1},
				Constraints: []Constraint{
					{Name: "x", Relation: RelationLE, Terms: []Term{{Institution: "Z", Coefficient: 1}}, Bound: 1},
					{Name: "y", Relation: RelationLE, Terms: []Term{{Institution: "A", Coefficient: 1}}, Bound: 1},
					{Name: "y", Relation: RelationGE, Terms: []Term{{Institution: "A", Coefficient: 1}}, Bound: 0},
				},
			},
			wantErr: []error{ErrUnknownInstitution, ErrDuplicateConstraint},
		},
		{
			name: "bad relation",
			problem: Problem{
				Demand:   map[string]int{"A": 1},
				Capacity: map[string]int{"A": 1},
				Constraints: []Constraint{
					{Name: "x", Relation: "LT", Terms: []Term{{Institution: "A", Coefficient: 1}}, Bound: 1},
				},
			},
			wantErr: []error{ErrInvalidConstraint},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.problem.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("error %v does not wrap %v", err, want)
				}
			}
		})
	}
}
