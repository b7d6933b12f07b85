package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/KasumiMercury/primind-demand-allocation/internal/service/allocation"
)

const (
	allocationPoolSizeEnv          = "ALLOCATION_POOL_SIZE"
	allocationMinPerInstitutionEnv = "ALLOCATION_MIN_PER_INSTITUTION"
	allocationMaxPerInstitutionEnv = "ALLOCATION_MAX_PER_INSTITUTION"
	allocationFulfillmentRatioEnv  = "ALLOCATION_FULFILLMENT_RATIO"
	allocationSolveTimeoutEnv      = "ALLOCATION_SOLVE_TIMEOUT"
	allocationMaxNodesEnv          = "ALLOCATION_MAX_NODES"
)

type AllocationConfig struct {
	PoolSize          int
	MinPerInstitution int
	MaxPerInstitution int
	FulfillmentRatio  float64
	SolveTimeout      time.Duration
	MaxNodes          int
}

// LoadAllocationConfig reads the allocation policy. Unparsable or negative
// values fall back to defaults; a floor above the ceiling is an error.
func LoadAllocationConfig() (*AllocationConfig, error) {
	cfg := &AllocationConfig{
		PoolSize:          intEnv(allocationPoolSizeEnv, allocation.DefaultPoolSize),
		MinPerInstitution: intEnv(allocationMinPerInstitutionEnv, allocation.DefaultMinPerInstitution),
		MaxPerInstitution: intEnv(allocationMaxPerInstitutionEnv, allocation.DefaultMaxPerInstitution),
		FulfillmentRatio:  allocation.DefaultFulfillmentRatio,
		SolveTimeout:      allocation.DefaultSolveTimeout,
		MaxNodes:          intEnv(allocationMaxNodesEnv, allocation.DefaultMaxNodes),
	}

	if v := os.Getenv(allocationFulfillmentRatioEnv); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			cfg.FulfillmentRatio = parsed
		}
	}

	if v := os.Getenv(allocationSolveTimeoutEnv); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			cfg.SolveTimeout = parsed
		}
	}

	if cfg.MaxPerInstitution > 0 && cfg.MinPerInstitution > cfg.MaxPerInstitution {
		return nil, fmt.Errorf("%w: %s=%d exceeds %s=%d", ErrAllocationBounds,
			allocationMinPerInstitutionEnv, cfg.MinPerInstitution,
			allocationMaxPerInstitutionEnv, cfg.MaxPerInstitution)
	}

	return cfg, nil
}

// Policy converts the configuration to the allocation service's policy.
func (c *AllocationConfig) Policy() allocation.Config {
	return allocation.Config{
		PoolSize:          c.PoolSize,
		MinPerInstitution: c.MinPerInstitution,
		MaxPerInstitution: c.MaxPerInstitution,
		FulfillmentRatio:  c.FulfillmentRatio,
		SolveTimeout:      c.SolveTimeout,
		MaxNodes:          c.MaxNodes,
	}
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
