package allocation

import (
	"errors"
	"fmt"

	"github.com/KasumiMercury/primind-demand-allocation/internal/service/ilp"
)

var (
	ErrEmptyDemand         = errors.New("demand has no institutions")
	ErrNegativeDemand      = errors.New("demand must be non-negative")
	ErrMissingCapacity     = errors.New("capacity missing for institution")
	ErrNegativeCapacity    = errors.New("capacity must be non-negative")
	ErrUnknownInstitution  = errors.New("constraint references unknown institution")
	ErrDuplicateConstraint = errors.New("duplicate constraint name")
	ErrEmptyConstraint     = errors.New("constraint has no non-zero terms")
	ErrInvalidConstraint   = errors.New("invalid constraint")
	ErrInvalidConfig       = errors.New("invalid allocation config")

	ErrInfeasible    = errors.New("allocation is infeasible")
	ErrUnbounded     = errors.New("allocation is unbounded")
	ErrTimeout       = errors.New("allocation solve timed out")
	ErrSolverFailure = errors.New("allocation solver failed")
)

// SolveError reports a solve that produced no allocation.
type SolveError struct {
	Status ilp.Status
	Nodes  int
	Err    error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("allocation solve %s after %d nodes: %v", e.Status, e.Nodes, e.Err)
}

func (e *SolveError) Unwrap() []error {
	return []error{statusError(e.Status), e.Err}
}

func statusError(status ilp.Status) error {
	switch status {
	case ilp.StatusInfeasible:
		return ErrInfeasible
	case ilp.StatusUnbounded:
		return ErrUnbounded
	case ilp.StatusTimeout, ilp.StatusNodeLimit:
		return ErrTimeout
	default:
		return ErrSolverFailure
	}
}
