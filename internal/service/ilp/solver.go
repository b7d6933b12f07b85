package ilp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	feasibilityTolerance    = 1e-6
	integralityTolerance    = 1e-6
	pruneTolerance          = 1e-9
	defaultSimplexTolerance = 1e-10
	defaultMaxNodes         = 100000
)

type Status string

const (
	StatusOptimal       Status = "optimal"
	StatusInfeasible    Status = "infeasible"
	StatusUnbounded     Status = "unbounded"
	StatusTimeout       Status = "timeout"
	StatusNodeLimit     Status = "node_limit"
	StatusSolverFailure Status = "solver_failure"
)

type Options struct {
	// MaxNodes bounds the number of LP relaxations solved during branch-and-bound.
	MaxNodes int
	// Tolerance is passed to the simplex as the reduced-cost optimality threshold.
	Tolerance float64
}

func DefaultOptions() Options {
	return Options{
		MaxNodes:  defaultMaxNodes,
		Tolerance: defaultSimplexTolerance,
	}
}

type Solution struct {
	Status    Status
	Objective float64
	Values    []int
	Nodes     int
}

type bounds struct {
	lower []float64
	upper []float64
}

func (b bounds) clone() bounds {
	lower := make([]float64, len(b.lower))
	upper := make([]float64, len(b.upper))
	copy(lower, b.lower)
	copy(upper, b.upper)
	return bounds{lower: lower, upper: upper}
}

// Solve maximizes the model objective over non-negative integers using
// depth-first branch-and-bound on simplex relaxations. The context deadline
// bounds the total solve time.
func Solve(ctx context.Context, model *Model, opts Options) (*Solution, error) {
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = defaultMaxNodes
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = defaultSimplexTolerance
	}

	sol := &Solution{}

	root, structural, err := presolve(model)
	if err != nil {
		sol.Status = statusFor(err)
		return sol, err
	}

	var (
		best    []float64
		bestObj = math.Inf(-1)
		stack   = []bounds{root}
	)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			sol.Status = StatusTimeout
			return sol, fmt.Errorf("branch-and-bound interrupted after %d nodes: %w", sol.Nodes, err)
		}
		if sol.Nodes >= opts.MaxNodes {
			sol.Status = StatusNodeLimit
			return sol, fmt.Errorf("%w: %d", ErrNodeLimit, opts.MaxNodes)
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sol.Nodes++

		obj, x, err := relax(model.objective, structural, node, opts.Tolerance)
		if err != nil {
			if errors.Is(err, ErrInfeasible) {
				continue
			}
			sol.Status = statusFor(err)
			return sol, err
		}

		if best != nil && obj <= bestObj+pruneTolerance {
			continue
		}

		j := mostFractional(x)
		if j < 0 {
			best = x
			bestObj = obj
			continue
		}

		floor := math.Floor(x[j])

		down := node.clone()
		down.upper[j] = floor
		if down.lower[j] <= down.upper[j] {
			stack = append(stack, down)
		}

		up := node.clone()
		up.lower[j] = floor + 1
		if up.lower[j] <= up.upper[j] {
			stack = append(stack, up)
		}
	}

	if best == nil {
		sol.Status = StatusInfeasible
		return sol, ErrInfeasible
	}

	sol.Values = make([]int, len(best))
	for j, v := range best {
		sol.Values[j] = int(math.Round(v))
	}
	sol.Objective = model.Evaluate(sol.Values)
	sol.Status = StatusOptimal
	return sol, nil
}

func statusFor(err error) Status {
	switch {
	case errors.Is(err, ErrInfeasible):
		return StatusInfeasible
	case errors.Is(err, ErrUnbounded):
		return StatusUnbounded
	default:
		return StatusSolverFailure
	}
}

// presolve folds single-variable rows into integer bounds and drops rows with
// no non-zero coefficient after checking them.
func presolve(model *Model) (bounds, []Row, error) {
	n := model.NumVariables()
	b := bounds{lower: make([]float64, n), upper: make([]float64, n)}
	for j := range b.upper {
		b.upper[j] = math.Inf(1)
	}

	var structural []Row
	for _, row := range model.rows {
		idx := -1
		nonZero := 0
		for j, c := range row.Coefficients {
			if c != 0 {
				idx = j
				nonZero++
			}
		}

		switch nonZero {
		case 0:
			if !satisfies(0, row.Sense, row.RHS, feasibilityTolerance) {
				return b, nil, fmt.Errorf("%w: row %q cannot be satisfied", ErrInfeasible, row.Name)
			}
		case 1:
			tightenBounds(&b, idx, row.Coefficients[idx], row.Sense, row.RHS)
		default:
			structural = append(structural, row)
		}
	}

	inRow := make([]bool, n)
	for _, row := range structural {
		for j, c := range row.Coefficients {
			if c != 0 {
				inRow[j] = true
			}
		}
	}

	for j := 0; j < n; j++ {
		if b.lower[j] > b.upper[j] {
			return b, nil, fmt.Errorf("%w: variable %q has lower bound %g above upper bound %g",
				ErrInfeasible, model.variables[j], b.lower[j], b.upper[j])
		}
		if math.IsInf(b.upper[j], 1) && !inRow[j] && model.objective[j] > 0 {
			return b, nil, fmt.Errorf("%w: variable %q", ErrUnbounded, model.variables[j])
		}
	}

	return b, structural, nil
}

func tightenBounds(b *bounds, j int, coef float64, sense Sense, rhs float64) {
	limit := rhs / coef
	if coef < 0 {
		switch sense {
		case LessOrEqual:
			sense = GreaterOrEqual
		case GreaterOrEqual:
			sense = LessOrEqual
		}
	}

	if sense == LessOrEqual || sense == Equal {
		upper := math.Floor(limit + feasibilityTolerance)
		if upper < b.upper[j] {
			b.upper[j] = upper
		}
	}
	if sense == GreaterOrEqual || sense == Equal {
		lower := math.Ceil(limit - feasibilityTolerance)
		if lower > b.lower[j] {
			b.lower[j] = lower
		}
	}
}

// relax solves the LP relaxation of the structural rows within the node bounds.
// It returns the maximized objective and the relaxed variable values.
func relax(objective []float64, structural []Row, node bounds, tol float64) (float64, []float64, error) {
	n := len(objective)

	// Inequalities in G*x <= h form.
	var (
		g [][]float64
		h []float64
	)
	for _, row := range structural {
		switch row.Sense {
		case LessOrEqual:
			g = append(g, row.Coefficients)
			h = append(h, row.RHS)
		case GreaterOrEqual:
			g = append(g, negate(row.Coefficients))
			h = append(h, -row.RHS)
		case Equal:
			g = append(g, row.Coefficients, negate(row.Coefficients))
			h = append(h, row.RHS, -row.RHS)
		}
	}
	for j := 0; j < n; j++ {
		if node.lower[j] > 0 {
			coef := make([]float64, n)
			coef[j] = -1
			g = append(g, coef)
			h = append(h, -node.lower[j])
		}
		if !math.IsInf(node.upper[j], 1) {
			coef := make([]float64, n)
			coef[j] = 1
			g = append(g, coef)
			h = append(h, node.upper[j])
		}
	}

	active := make([]int, 0, n)
	for j := 0; j < n; j++ {
		for _, coef := range g {
			if coef[j] != 0 {
				active = append(active, j)
				break
			}
		}
	}

	x := make([]float64, n)
	if len(active) == 0 {
		return 0, x, nil
	}

	// Standard form: [G | I] * [x; s] = h, x, s >= 0, minimizing -objective.
	m := len(g)
	k := len(active)
	a := mat.NewDense(m, k+m, nil)
	for i, coef := range g {
		for col, j := range active {
			a.Set(i, col, coef[j])
		}
		a.Set(i, k+i, 1)
	}
	c := make([]float64, k+m)
	for col, j := range active {
		c[col] = -objective[j]
	}

	optF, optX, err := lp.Simplex(c, a, h, tol, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return 0, nil, ErrInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			return 0, nil, ErrUnbounded
		default:
			return 0, nil, fmt.Errorf("%w: %v", ErrSolverFailure, err)
		}
	}

	for col, j := range active {
		x[j] = optX[col]
	}
	return -optF, x, nil
}

func negate(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = -v
	}
	return out
}

// mostFractional returns the index of the variable farthest from an integer,
// or -1 when every value is integral.
func mostFractional(x []float64) int {
	idx := -1
	worst := integralityTolerance
	for j, v := range x {
		frac := math.Abs(v - math.Round(v))
		if frac > worst {
			worst = frac
			idx = j
		}
	}
	return idx
}
