package ilp

import (
	"context"
	"errors"
	"math"
	"testing"
)

type rowSpec struct {
	name  string
	coef  []float64
	sense Sense
	rhs   float64
}

func buildModel(t *testing.T, vars []string, objective []float64, rows []rowSpec) *Model {
	t.Helper()

	m := NewModel(vars)
	if err := m.SetObjective(objective); err != nil {
		t.Fatalf("SetObjective() error = %v", err)
	}
	for _, r := range rows {
		if err := m.AddRow(r.name, r.coef, r.sense, r.rhs); err != nil {
			t.Fatalf("AddRow(%q) error = %v", r.name, err)
		}
	}
	return m
}

func TestSolve_Optimal(t *testing.T) {
	tests := []struct {
		name          string
		vars          []string
		objective     []float64
		rows          []rowSpec
		wantValues    []int
		wantObjective float64
	}{
		{
			name:      "bound rows fold into variable bounds",
			vars:      []string{"x", "y"},
			objective: []float64{3, 2},
			rows: []rowSpec{
				{name: "sum", coef: []float64{1, 1}, sense: LessOrEqual, rhs: 4},
				{name: "x_cap", coef: []float64{1, 0}, sense: LessOrEqual, rhs: 3},
			},
			wantValues:    []int{3, 1},
			wantObjective: 11,
		},
		{
			name:      "integral LP optimum",
			vars:      []string{"a", "b", "c"},
			objective: []float64{5, 4, 3},
			rows: []rowSpec{
				{name: "r1", coef: []float64{2, 3, 1}, sense: LessOrEqual, rhs: 5},
				{name: "r2", coef: []float64{4, 1, 2}, sense: LessOrEqual, rhs: 11},
				{name: "r3", coef: []float64{3, 4, 2}, sense: LessOrEqual, rhs: 8},
			},
			wantValues:    []int{2, 0, 1},
			wantObjective: 13,
		},
		{
			name:      "binary knapsack requires branching",
			vars:      []string{"x", "y", "z", "w"},
			objective: []float64{8, 11, 6, 4},
			rows: []rowSpec{
				{name: "weight", coef: []float64{5, 7, 4, 3}, sense: LessOrEqual, rhs: 14},
				{name: "x_max", coef: []float64{1, 0, 0, 0}, sense: LessOrEqual, rhs: 1},
				{name: "y_max", coef: []float64{0, 1, 0, 0}, sense: LessOrEqual, rhs: 1},
				{name: "z_max", coef: []float64{0, 0, 1, 0}, sense: LessOrEqual, rhs: 1},
				{name: "w_max", coef: []float64{0, 0, 0, 1}, sense: LessOrEqual, rhs: 1},
			},
			wantValues:    []int{0, 1, 1, 1},
			wantObjective: 21,
		},
		{
			name:      "equality row",
			vars:      []string{"x", "y"},
			objective: []float64{2, 1},
			rows: []rowSpec{
				{name: "total", coef: []float64{1, 1}, sense: Equal, rhs: 5},
				{name: "x_cap", coef: []float64{1, 0}, sense: LessOrEqual, rhs: 3},
			},
			wantValues:    []int{3, 2},
			wantObjective: 8,
		},
		{
			name:      "greater-or-equal floors",
			vars:      []string{"x", "y"},
			objective: []float64{1, 0},
			rows: []rowSpec{
				{name: "sum", coef: []float64{1, 1}, sense: LessOrEqual, rhs: 6},
				{name: "y_floor", coef: []float64{0, 1}, sense: GreaterOrEqual, rhs: 2},
			},
			wantValues:    []int{4, 2},
			wantObjective: 4,
		},
		{
			name:      "zero objective variable stays at lower bound",
			vars:      []string{"x", "idle"},
			objective: []float64{1, 0},
			rows: []rowSpec{
				{name: "x_cap", coef: []float64{1, 0}, sense: LessOrEqual, rhs: 2},
			},
			wantValues:    []int{2, 0},
			wantObjective: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildModel(t, tt.vars, tt.objective, tt.rows)

			sol, err := Solve(context.Background(), m, DefaultOptions())
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			if sol.Status != StatusOptimal {
				t.Errorf("Status = %q, want %q", sol.Status, StatusOptimal)
			}
			if math.Abs(sol.Objective-tt.wantObjective) > 1e-9 {
				t.Errorf("Objective = %v, want %v", sol.Objective, tt.wantObjective)
			}
			if len(sol.Values) != len(tt.wantValues) {
				t.Fatalf("len(Values) = %d, want %d", len(sol.Values), len(tt.wantValues))
			}
			for i := range tt.wantValues {
				if sol.Values[i] != tt.wantValues[i] {
					t.Errorf("Values[%d] = %d, want %d", i, sol.Values[i], tt.wantValues[i])
				}
			}
			if violated := m.Violations(sol.Values); len(violated) != 0 {
				t.Errorf("solution violates rows %v", violated)
			}
		})
	}
}

func TestSolve_FractionalRelaxationRoundsToIntegerOptimum(t *testing.T) {
	m := buildModel(t, []string{"x", "y"}, []float64{1, 1}, []rowSpec{
		{name: "half", coef: []float64{2, 2}, sense: LessOrEqual, rhs: 3},
	})

	sol, err := Solve(context.Background(), m, DefaultOptions())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Objective != 1 {
		t.Errorf("Objective = %v, want 1", sol.Objective)
	}
	if sol.Nodes < 2 {
		t.Errorf("Nodes = %d, want branching to occur", sol.Nodes)
	}
}

func TestSolve_Failures(t *testing.T) {
	tests := []struct {
		name       string
		vars       []string
		objective  []float64
		rows       []rowSpec
		wantErr    error
		wantStatus Status
	}{
		{
			name:      "floors exceed shared limit",
			vars:      []string{"a", "b"},
			objective: []float64{1, 1},
			rows: []rowSpec{
				{name: "pair", coef: []float64{1, 1}, sense: LessOrEqual, rhs: 1},
				{name: "a_min", coef: []float64{1, 0}, sense: GreaterOrEqual, rhs: 1},
				{name: "b_min", coef: []float64{0, 1}, sense: GreaterOrEqual, rhs: 1},
			},
			wantErr:    ErrInfeasible,
			wantStatus: StatusInfeasible,
		},
		{
			name:      "crossed bounds detected before solving",
			vars:      []string{"a"},
			objective: []float64{1},
			rows: []rowSpec{
				{name: "a_min", coef: []float64{1}, sense: GreaterOrEqual, rhs: 2},
				{name: "a_max", coef: []float64{1}, sense: LessOrEqual, rhs: 1},
			},
			wantErr:    ErrInfeasible,
			wantStatus: StatusInfeasible,
		},
		{
			name:       "unconstrained positive objective",
			vars:       []string{"a"},
			objective:  []float64{1},
			wantErr:    ErrUnbounded,
			wantStatus: StatusUnbounded,
		},
		{
			name:      "unbounded direction through structural row",
			vars:      []string{"a", "b"},
			objective: []float64{1, 1},
			rows: []rowSpec{
				{name: "diff", coef: []float64{1, -1}, sense: LessOrEqual, rhs: 1},
			},
			wantErr:    ErrUnbounded,
			wantStatus: StatusUnbounded,
		},
		{
			name:      "unsatisfiable empty row",
			vars:      []string{"a"},
			objective: []float64{1},
			rows: []rowSpec{
				{name: "empty", coef: []float64{0}, sense: GreaterOrEqual, rhs: 1},
			},
			wantErr:    ErrInfeasible,
			wantStatus: StatusInfeasible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildModel(t, tt.vars, tt.objective, tt.rows)

			sol, err := Solve(context.Background(), m, DefaultOptions())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Solve() error = %v, want %v", err, tt.wantErr)
			}
			if sol.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", sol.Status, tt.wantStatus)
			}
			if sol.Values != nil {
				t.Errorf("Values = %v, want nil", sol.Values)
			}
		})
	}
}

func TestSolve_CanceledContext(t *testing.T) {
	m := buildModel(t, []string{"x"}, []float64{1}, []rowSpec{
		{name: "cap", coef: []float64{1}, sense: LessOrEqual, rhs: 3},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol, err := Solve(ctx, m, DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Solve() error = %v, want context.Canceled", err)
	}
	if sol.Status != StatusTimeout {
		t.Errorf("Status = %q, want %q", sol.Status, StatusTimeout)
	}
}

func TestSolve_NodeLimit(t *testing.T) {
	m := buildModel(t, []string{"x", "y"}, []float64{1, 1}, []rowSpec{
		{name: "half", coef: []float64{2, 2}, sense: LessOrEqual, rhs: 3},
	})

	sol, err := Solve(context.Background(), m, Options{MaxNodes: 1})
	if !errors.Is(err, ErrNodeLimit) {
		t.Fatalf("Solve() error = %v, want ErrNodeLimit", err)
	}
	if sol.Status != StatusNodeLimit {
		t.Errorf("Status = %q, want %q", sol.Status, StatusNodeLimit)
	}
}

func TestModel_Validation(t *testing.T) {
	m := NewModel([]string{"a", "b"})

	if err := m.SetObjective([]float64{1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("SetObjective() error = %v, want ErrDimensionMismatch", err)
	}
	if err := m.AddRow("r", []float64{1}, LessOrEqual, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("AddRow() error = %v, want ErrDimensionMismatch", err)
	}
	if err := m.AddRow("r", []float64{1, 1}, LessOrEqual, 1); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}
	if err := m.AddRow("r", []float64{1, 1}, LessOrEqual, 2); !errors.Is(err, ErrDuplicateRow) {
		t.Errorf("AddRow() error = %v, want ErrDuplicateRow", err)
	}
	if err := m.AddRow("nan", []float64{math.NaN(), 1}, LessOrEqual, 1); !errors.Is(err, ErrNonFinite) {
		t.Errorf("AddRow() error = %v, want ErrNonFinite", err)
	}
	if err := m.AddRow("sense", []float64{1, 1}, Sense(9), 1); !errors.Is(err, ErrInvalidSense) {
		t.Errorf("AddRow() error = %v, want ErrInvalidSense", err)
	}
}
