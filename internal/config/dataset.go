package config

import (
	"os"
	"strings"

	"github.com/KasumiMercury/primind-demand-allocation/internal/infra/featuretable"
)

const (
	featureTableURLEnv           = "FEATURE_TABLE_URL"
	demandModelURLEnv            = "DEMAND_MODEL_URL"
	featureInstitutionColumnEnv  = "FEATURE_INSTITUTION_COLUMN"
	featureCategoricalColumnsEnv = "FEATURE_CATEGORICAL_COLUMNS"

	defaultFeatureTableURL = "data/testing_data.csv"
	defaultDemandModelURL  = "models/demand_pipeline.json"
)

type DatasetConfig struct {
	FeatureTableURL string
	DemandModelURL  string
	Table           featuretable.Options
}

func LoadDatasetConfig() *DatasetConfig {
	tableURL := os.Getenv(featureTableURLEnv)
	if tableURL == "" {
		tableURL = defaultFeatureTableURL
	}

	modelURL := os.Getenv(demandModelURLEnv)
	if modelURL == "" {
		modelURL = defaultDemandModelURL
	}

	opts := featuretable.DefaultOptions()
	if v := strings.TrimSpace(os.Getenv(featureInstitutionColumnEnv)); v != "" {
		opts.InstitutionColumn = v
	}
	if v := os.Getenv(featureCategoricalColumnsEnv); v != "" {
		if columns := splitList(v); len(columns) > 0 {
			opts.CategoricalColumns = columns
		}
	}

	return &DatasetConfig{
		FeatureTableURL: tableURL,
		DemandModelURL:  modelURL,
		Table:           opts,
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
