package ilp

import (
	"fmt"
	"math"
)

// Sense is the relation of a row's left-hand side to its right-hand side.
type Sense int

const (
	LessOrEqual Sense = iota
	GreaterOrEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	case Equal:
		return "=="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Row is a named linear constraint over all model variables.
type Row struct {
	Name         string
	Coefficients []float64
	Sense        Sense
	RHS          float64
}

// Model is a maximization problem over non-negative integer variables.
type Model struct {
	variables []string
	objective []float64
	rows      []Row
	rowNames  map[string]struct{}
}

// NewModel creates a model with one non-negative integer variable per name.
func NewModel(variables []string) *Model {
	vars := make([]string, len(variables))
	copy(vars, variables)
	return &Model{
		variables: vars,
		objective: make([]float64, len(vars)),
		rowNames:  make(map[string]struct{}),
	}
}

func (m *Model) NumVariables() int {
	return len(m.variables)
}

func (m *Model) Variables() []string {
	return m.variables
}

func (m *Model) Rows() []Row {
	return m.rows
}

// SetObjective sets the coefficients of the maximized objective.
func (m *Model) SetObjective(coefficients []float64) error {
	if len(coefficients) != len(m.variables) {
		return fmt.Errorf("%w: objective has %d coefficients, model has %d variables",
			ErrDimensionMismatch, len(coefficients), len(m.variables))
	}
	if err := checkFinite(coefficients); err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	copy(m.objective, coefficients)
	return nil
}

// AddRow appends a named constraint. Row names must be unique.
func (m *Model) AddRow(name string, coefficients []float64, sense Sense, rhs float64) error {
	if len(coefficients) != len(m.variables) {
		return fmt.Errorf("%w: row %q has %d coefficients, model has %d variables",
			ErrDimensionMismatch, name, len(coefficients), len(m.variables))
	}
	if _, exists := m.rowNames[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRow, name)
	}
	if sense != LessOrEqual && sense != GreaterOrEqual && sense != Equal {
		return fmt.Errorf("%w: row %q has sense %v", ErrInvalidSense, name, sense)
	}
	if err := checkFinite(coefficients); err != nil {
		return fmt.Errorf("row %q: %w", name, err)
	}
	if math.IsNaN(rhs) || math.IsInf(rhs, 0) {
		return fmt.Errorf("row %q: %w", name, ErrNonFinite)
	}

	coef := make([]float64, len(coefficients))
	copy(coef, coefficients)
	m.rows = append(m.rows, Row{Name: name, Coefficients: coef, Sense: sense, RHS: rhs})
	m.rowNames[name] = struct{}{}
	return nil
}

// Evaluate returns the objective value of an assignment.
func (m *Model) Evaluate(values []int) float64 {
	var total float64
	for j, v := range values {
		total += m.objective[j] * float64(v)
	}
	return total
}

// Violations lists the rows an integer assignment does not satisfy.
func (m *Model) Violations(values []int) []string {
	var violated []string
	for _, row := range m.rows {
		var lhs float64
		for j, v := range values {
			lhs += row.Coefficients[j] * float64(v)
		}
		if !satisfies(lhs, row.Sense, row.RHS, feasibilityTolerance) {
			violated = append(violated, row.Name)
		}
	}
	return violated
}

func satisfies(lhs float64, sense Sense, rhs, tol float64) bool {
	switch sense {
	case LessOrEqual:
		return lhs <= rhs+tol
	case GreaterOrEqual:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}

func checkFinite(values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
	}
	return nil
}
