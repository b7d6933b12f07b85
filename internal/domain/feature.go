package domain

import (
	"math"
	"time"
)

// ModelColumns is the ordered covariate list the demand pipeline was fit against.
var ModelColumns = []string{
	"institution", "inst_type", "month", "dayofweek",
	"visit_count", "no_unique_patients", "no_out_patients",
	"no_in_patients", "in_out_ratio", "avg_age", "avg_male_age",
	"avg_female_age", "max_age", "min_age", "no_male",
	"no_female", "no_unique_states", "day", "lag_1", "lag_2", "lag_3",
}

const InstitutionColumn = "institution"

// FeatureRecord is one row of the historical table: an institution's covariates on a date.
type FeatureRecord struct {
	Institution string
	Date        time.Time
	Categorical map[string]string
	Numeric     map[string]float64
}

// Covariate is a single named model input. Categorical covariates carry Text,
// numeric ones carry Number; Number is NaN when the cell was empty.
type Covariate struct {
	Name        string
	Categorical bool
	Text        string
	Number      float64
}

type CovariateVector []Covariate

// Select builds the ordered covariate vector for the given columns.
func (r *FeatureRecord) Select(columns []string) CovariateVector {
	vector := make(CovariateVector, 0, len(columns))
	for _, col := range columns {
		if col == InstitutionColumn {
			vector = append(vector, Covariate{Name: col, Categorical: true, Text: r.Institution})
			continue
		}
		if text, ok := r.Categorical[col]; ok {
			vector = append(vector, Covariate{Name: col, Categorical: true, Text: text})
			continue
		}
		number, ok := r.Numeric[col]
		if !ok {
			number = math.NaN()
		}
		vector = append(vector, Covariate{Name: col, Number: number})
	}
	return vector
}

// DateKey normalizes a date to its calendar day in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
