package domain

import "time"

//go:generate mockgen -source=feature_table.go -destination=feature_table_mock.go -package=domain

// FeatureTable is the read-only historical table keyed by (institution, date).
type FeatureTable interface {
	// Lookup returns every record matching both keys. Callers decide how to treat
	// zero or multiple matches.
	Lookup(institution string, date time.Time) []*FeatureRecord
	Len() int
}
