package repository

import "errors"

var (
	ErrRedisConnection     = errors.New("redis connection error")
	ErrInvalidForecastData = errors.New("invalid forecast data")
	ErrInvalidForecastKey  = errors.New("invalid forecast key")
)
