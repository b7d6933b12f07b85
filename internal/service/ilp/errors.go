package ilp

import "errors"

var (
	ErrDimensionMismatch = errors.New("coefficient count does not match variable count")
	ErrDuplicateRow      = errors.New("duplicate row name")
	ErrInvalidSense      = errors.New("invalid row sense")
	ErrNonFinite         = errors.New("non-finite coefficient")

	ErrInfeasible    = errors.New("problem is infeasible")
	ErrUnbounded     = errors.New("problem is unbounded")
	ErrNodeLimit     = errors.New("branch-and-bound node limit reached")
	ErrSolverFailure = errors.New("linear relaxation failed")
)
