package predictor

import "errors"

var (
	ErrInvalidPipeline = errors.New("invalid model pipeline")
	ErrColumnMismatch  = errors.New("covariate columns do not match the model")
	ErrCategoryType    = errors.New("covariate kind does not match the model")
)
