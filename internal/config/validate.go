package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ValidateForRun checks the settings the forecast server needs to start.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPort, cfg.Port))
	}

	if cfg.Dataset == nil || cfg.Dataset.FeatureTableURL == "" || cfg.Dataset.DemandModelURL == "" {
		errs = append(errs, ErrDatasetURLMissing)
	}

	if cfg.Cache != nil && cfg.Cache.Enabled {
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ValidateForAllocation checks that the pool can satisfy the floor for the
// given number of institutions.
func ValidateForAllocation(cfg *AllocationConfig, institutions int) error {
	if need := cfg.MinPerInstitution * institutions; need > cfg.PoolSize {
		return fmt.Errorf("%w: %d institutions need %d, pool is %d",
			ErrAllocationPoolTooLow, institutions, need, cfg.PoolSize)
	}
	return nil
}
