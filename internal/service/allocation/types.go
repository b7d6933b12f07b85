package allocation

import (
	"fmt"
	"math"
	"time"

	"github.com/KasumiMercury/primind-demand-allocation/internal/service/ilp"
)

const (
	DefaultPoolSize          = 180
	DefaultMinPerInstitution = 1
	DefaultMaxPerInstitution = 3
	DefaultFulfillmentRatio  = 0.8
	DefaultSolveTimeout      = 30 * time.Second
	DefaultMaxNodes          = 100000
)

// Config holds the global allocation policy. A zero MaxPerInstitution or
// MinPerInstitution disables that bound; a zero FulfillmentRatio disables the
// fulfillment row.
type Config struct {
	PoolSize          int
	MinPerInstitution int
	MaxPerInstitution int
	FulfillmentRatio  float64
	SolveTimeout      time.Duration
	MaxNodes          int
}

func DefaultConfig() Config {
	return Config{
		PoolSize:          DefaultPoolSize,
		MinPerInstitution: DefaultMinPerInstitution,
		MaxPerInstitution: DefaultMaxPerInstitution,
		FulfillmentRatio:  DefaultFulfillmentRatio,
		SolveTimeout:      DefaultSolveTimeout,
		MaxNodes:          DefaultMaxNodes,
	}
}

func (c Config) Validate() error {
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: pool size %d is negative", ErrInvalidConfig, c.PoolSize)
	}
	if c.MinPerInstitution < 0 {
		return fmt.Errorf("%w: per-institution floor %d is negative", ErrInvalidConfig, c.MinPerInstitution)
	}
	if c.MaxPerInstitution < 0 {
		return fmt.Errorf("%w: per-institution ceiling %d is negative", ErrInvalidConfig, c.MaxPerInstitution)
	}
	if c.FulfillmentRatio < 0 || c.FulfillmentRatio > 1 || math.IsNaN(c.FulfillmentRatio) {
		return fmt.Errorf("%w: fulfillment ratio %v outside [0, 1]", ErrInvalidConfig, c.FulfillmentRatio)
	}
	if c.SolveTimeout < 0 {
		return fmt.Errorf("%w: solve timeout %s is negative", ErrInvalidConfig, c.SolveTimeout)
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("%w: node limit %d is negative", ErrInvalidConfig, c.MaxNodes)
	}
	return nil
}

// Problem is a single allocation request keyed by institution id.
type Problem struct {
	Demand      map[string]int
	Capacity    map[string]int
	Constraints []Constraint
}

// Result is an optimal allocation. Allocations has one entry per institution
// in the demand map.
type Result struct {
	RunID       string
	Status      ilp.Status
	Allocations map[string]int
	Objective   float64
	Nodes       int
	Duration    time.Duration
}

// Total returns the number of units allocated.
func (r *Result) Total() int {
	total := 0
	for _, v := range r.Allocations {
		total += v
	}
	return total
}
