package domain

import "errors"

var (
	ErrNoInstitution   = errors.New("no institution passed")
	ErrNoDate          = errors.New("no date passed")
	ErrInvalidDate     = errors.New("invalid date")
	ErrRecordNotFound  = errors.New("no DB entry found")
	ErrDuplicateRecord = errors.New("multiple DB entries found")
)
