package forecast

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
)

// Snapshot is an immutable pairing of feature table and fitted model.
type Snapshot struct {
	Table     domain.FeatureTable
	Predictor domain.DemandPredictor
	Columns   []string
	Version   string
	LoadedAt  time.Time
}

type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

type LoaderFunc func(ctx context.Context) (*Snapshot, error)

func (f LoaderFunc) Load(ctx context.Context) (*Snapshot, error) {
	return f(ctx)
}

// Result is the outcome of one forecast. Found is false when the table has no
// record for the institution and date; that is not an error.
type Result struct {
	Institution   string
	Date          time.Time
	Demand        int
	LogPrediction float64
	Found         bool
	Cached        bool
}
