package domain

import "context"

//go:generate mockgen -source=predictor.go -destination=predictor_mock.go -package=domain

// DemandPredictor is a fitted model returning a log-scale demand prediction.
type DemandPredictor interface {
	Predict(ctx context.Context, vector CovariateVector) (float64, error)
	Version() string
}
