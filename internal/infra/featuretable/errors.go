package featuretable

import "errors"

var (
	ErrEmptyTable         = errors.New("feature table has no header")
	ErrMissingColumn      = errors.New("feature table is missing a required column")
	ErrMalformedDate      = errors.New("feature table has a malformed date")
	ErrMalformedNumber    = errors.New("feature table has a malformed numeric cell")
	ErrMissingInstitution = errors.New("feature table row has no institution")
)
