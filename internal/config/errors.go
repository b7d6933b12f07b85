package config

import "errors"

var (
	ErrRedisAddrMissing     = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB       = errors.New("REDIS_DB must be a valid integer")
	ErrAllocationBounds     = errors.New("allocation floor exceeds ceiling")
	ErrDatasetURLMissing    = errors.New("FEATURE_TABLE_URL and DEMAND_MODEL_URL are required")
	ErrInvalidPort          = errors.New("PORT must be a valid TCP port")
	ErrAllocationPoolTooLow = errors.New("allocation pool cannot cover the per-institution floor")
)
