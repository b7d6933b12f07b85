package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/KasumiMercury/primind-demand-allocation/internal/service/allocation"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Dataset.FeatureTableURL != defaultFeatureTableURL {
		t.Errorf("FeatureTableURL = %q", cfg.Dataset.FeatureTableURL)
	}
	if diff := cmp.Diff([]string{"institution", "inst_type"}, cfg.Dataset.Table.CategoricalColumns); diff != "" {
		t.Errorf("categorical columns (-want +got):\n%s", diff)
	}
	if cfg.Cache.Enabled || cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache = %+v, want disabled with 1h TTL", cfg.Cache)
	}
	if diff := cmp.Diff(allocation.DefaultConfig(), cfg.Allocation.Policy()); diff != "" {
		t.Errorf("allocation policy (-want +got):\n%s", diff)
	}
	if err := ValidateForRun(cfg); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FEATURE_TABLE_URL", "mem://localhost/table.csv")
	t.Setenv("FEATURE_CATEGORICAL_COLUMNS", " institution , region ,")
	t.Setenv("FORECAST_CACHE_ENABLED", "true")
	t.Setenv("FORECAST_CACHE_TTL", "15m")
	t.Setenv("ALLOCATION_POOL_SIZE", "50")
	t.Setenv("ALLOCATION_FULFILLMENT_RATIO", "0.5")
	t.Setenv("ALLOCATION_SOLVE_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("Port/LogLevel = %q/%v", cfg.Port, cfg.LogLevel)
	}
	if cfg.Dataset.FeatureTableURL != "mem://localhost/table.csv" {
		t.Errorf("FeatureTableURL = %q", cfg.Dataset.FeatureTableURL)
	}
	if diff := cmp.Diff([]string{"institution", "region"}, cfg.Dataset.Table.CategoricalColumns); diff != "" {
		t.Errorf("categorical columns (-want +got):\n%s", diff)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Allocation.PoolSize != 50 || cfg.Allocation.FulfillmentRatio != 0.5 || cfg.Allocation.SolveTimeout != 2*time.Second {
		t.Errorf("Allocation = %+v", cfg.Allocation)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ALLOCATION_POOL_SIZE", "lots")
	t.Setenv("ALLOCATION_FULFILLMENT_RATIO", "1.5")
	t.Setenv("ALLOCATION_SOLVE_TIMEOUT", "-1s")
	t.Setenv("FORECAST_CACHE_TTL", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Allocation.PoolSize != allocation.DefaultPoolSize {
		t.Errorf("PoolSize = %d", cfg.Allocation.PoolSize)
	}
	if cfg.Allocation.FulfillmentRatio != allocation.DefaultFulfillmentRatio {
		t.Errorf("FulfillmentRatio = %v", cfg.Allocation.FulfillmentRatio)
	}
	if cfg.Allocation.SolveTimeout != allocation.DefaultSolveTimeout {
		t.Errorf("SolveTimeout = %v", cfg.Allocation.SolveTimeout)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
}

func TestLoadHardErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "invalid redis db",
			env:     map[string]string{"REDIS_DB": "zero"},
			wantErr: ErrInvalidRedisDB,
		},
		{
			name: "floor above ceiling",
			env: map[string]string{
				"ALLOCATION_MIN_PER_INSTITUTION": "4",
				"ALLOCATION_MAX_PER_INSTITUTION": "3",
			},
			wantErr: ErrAllocationBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForRun(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:    "8080",
			Dataset: &DatasetConfig{FeatureTableURL: "a.csv", DemandModelURL: "m.json"},
			Redis:   &RedisConfig{Addr: "localhost:6379"},
			Cache:   &CacheConfig{},
		}
	}

	cfg := base()
	cfg.Port = "http"
	if err := ValidateForRun(cfg); !errors.Is(err, ErrInvalidPort) {
		t.Errorf("got %v, want ErrInvalidPort", err)
	}

	cfg = base()
	cfg.Dataset.DemandModelURL = ""
	if err := ValidateForRun(cfg); !errors.Is(err, ErrDatasetURLMissing) {
		t.Errorf("got %v, want ErrDatasetURLMissing", err)
	}

	cfg = base()
	cfg.Cache.Enabled = true
	cfg.Redis.Addr = ""
	if err := ValidateForRun(cfg); !errors.Is(err, ErrRedisAddrMissing) {
		t.Errorf("got %v, want ErrRedisAddrMissing", err)
	}
}

func TestValidateForAllocation(t *testing.T) {
	cfg := &AllocationConfig{PoolSize: 180, MinPerInstitution: 1}
	if err := ValidateForAllocation(cfg, 36); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateForAllocation(cfg, 181); !errors.Is(err, ErrAllocationPoolTooLow) {
		t.Errorf("got %v, want ErrAllocationPoolTooLow", err)
	}
}

func TestRedisClientOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("REDIS_DIAL_TIMEOUT", "750ms")

	cfg, err := LoadRedisConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := cfg.ClientOptions()
	if opts.Addr != "cache:6380" || opts.DB != 2 || opts.DialTimeout != 750*time.Millisecond {
		t.Errorf("options = addr %q db %d dial %s", opts.Addr, opts.DB, opts.DialTimeout)
	}
	if opts.TLSConfig == nil {
		t.Error("TLS requested but TLSConfig is nil")
	}

	t.Setenv("REDIS_DB", "-1")
	if _, err := LoadRedisConfig(); !errors.Is(err, ErrInvalidRedisDB) {
		t.Errorf("negative REDIS_DB: got %v, want ErrInvalidRedisDB", err)
	}
}
